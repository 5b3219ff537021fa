package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender_Substitution(t *testing.T) {
	vars := map[string]string{
		"username": "alice",
		"text":     "hello",
	}

	testCases := []struct {
		name     string
		template string
		expected string
	}{
		{
			name:     "single placeholder",
			template: "Hi {{username}}!",
			expected: "Hi alice!",
		},
		{
			name:     "multiple placeholders",
			template: "{{username}} said: {{text}}",
			expected: "alice said: hello",
		},
		{
			name:     "no placeholders",
			template: "plain message",
			expected: "plain message",
		},
		{
			name:     "surrounding whitespace inside braces",
			template: "Hi {{ username }}!",
			expected: "Hi alice!",
		},
		{
			name:     "unknown placeholder stays visible",
			template: "Your code is {{discount_code}}",
			expected: "Your code is {{discount_code}}",
		},
		{
			name:     "unterminated placeholder",
			template: "broken {{username",
			expected: "broken {{username",
		},
		{
			name:     "empty template",
			template: "",
			expected: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Render(tc.template, vars))
		})
	}
}

func TestRender_EmptyValueSubstitutes(t *testing.T) {
	assert.Equal(t, "post: ", Render("post: {{post_id}}", map[string]string{"post_id": ""}))
}
