// internal/llm/json_test.go
package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeInto(t *testing.T) {
	type payload struct {
		Subject string `json:"subject"`
		Tone    string `json:"tone"`
	}

	tests := []struct {
		name    string
		content string
		want    payload
		wantErr bool
	}{
		{
			name:    "clean json",
			content: `{"subject": "Welcome back", "tone": "warm"}`,
			want:    payload{Subject: "Welcome back", Tone: "warm"},
		},
		{
			name:    "json fence",
			content: "```json\n{\"subject\": \"Welcome back\", \"tone\": \"warm\"}\n```",
			want:    payload{Subject: "Welcome back", Tone: "warm"},
		},
		{
			name:    "bare fence",
			content: "```\n{\"subject\": \"Welcome back\"}\n```",
			want:    payload{Subject: "Welcome back"},
		},
		{
			name:    "surrounding prose",
			content: "Here is the copy you asked for:\n{\"subject\": \"Welcome back\"}\nLet me know if you need edits.",
			want:    payload{Subject: "Welcome back"},
		},
		{
			name:    "trailing comma repaired",
			content: `{"subject": "Welcome back", "tone": "warm",}`,
			want:    payload{Subject: "Welcome back", Tone: "warm"},
		},
		{
			name:    "single quotes repaired",
			content: `{'subject': 'Welcome back'}`,
			want:    payload{Subject: "Welcome back"},
		},
		{
			name:    "no json at all",
			content: "I could not produce a template this time.",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got payload
			err := DecodeInto(tt.content, &got)

			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedJSON)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeInto_NestedStructure(t *testing.T) {
	content := "```json\n" + `{
		"blocks": [
			{"type": "hero", "headline": "Don't miss out"},
			{"type": "footer"}
		]
	}` + "\n```"

	var got struct {
		Blocks []struct {
			Type     string `json:"type"`
			Headline string `json:"headline"`
		} `json:"blocks"`
	}

	require.NoError(t, DecodeInto(content, &got))
	require.Len(t, got.Blocks, 2)
	assert.Equal(t, "hero", got.Blocks[0].Type)
	assert.Equal(t, "Don't miss out", got.Blocks[0].Headline)
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, `{"a": 1}`, stripFences("```json\n{\"a\": 1}\n```"))
	assert.Equal(t, `{"a": 1}`, stripFences(`{"a": 1}`))
	assert.Equal(t, `{"a": 1}`, stripFences("  {\"a\": 1}  "))
}
