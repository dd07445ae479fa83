package ai

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestCompressToSubject(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "takes text before first period",
			body: "Customer is interested in premium plan; follow up next Tuesday.",
			want: "Customer is interested in premium plan; follow up next Tuesday",
		},
		{
			name: "takes first eight words when no period",
			body: "one two three four five six seven eight nine ten",
			want: "One two three four five six seven eight",
		},
		{
			name: "collapses newlines into spaces",
			body: "follow up\nwith the customer\nnext week",
			want: "Follow up with the customer next week",
		},
		{
			name: "strips trailing punctuation",
			body: "urgent!!",
			want: "Urgent",
		},
		{
			name: "capitalizes only the first character",
			body: "call John about the API keys",
			want: "Call John about the API keys",
		},
		{
			name: "empty body falls back",
			body: "",
			want: "Customer update",
		},
		{
			name: "punctuation only falls back",
			body: "...",
			want: "Customer update",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CompressToSubject(tt.body))
		})
	}
}

func TestCompressToSubjectTruncatesLongText(t *testing.T) {
	body := strings.Repeat("word ", 40) // no periods, but first 8 words are short
	subject := CompressToSubject(body)
	assert.LessOrEqual(t, utf8.RuneCountInString(subject), 70)

	long := strings.Repeat("x", 100)
	subject = CompressToSubject(long)
	assert.Equal(t, 70, utf8.RuneCountInString(subject))
	assert.True(t, strings.HasSuffix(subject, "..."))
	assert.Equal(t, "X"+strings.Repeat("x", 66)+"...", subject)
}
