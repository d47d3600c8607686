package llm_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/invoice-api/internal/llm"
	"github.com/rezonia/invoice-api/internal/model"
)

func TestNewClient(t *testing.T) {
	client := llm.NewClient("test-api-key")
	require.NotNil(t, client)
}

func TestNewClient_WithOptions(t *testing.T) {
	client := llm.NewClient("test-api-key",
		llm.WithBaseURL("https://custom.api.com/v1"),
		llm.WithDefaultModel(llm.ModelGPT4o),
		llm.WithTimeout(10*time.Second),
	)
	require.NotNil(t, client)
}

func TestNewExtractor_WithModel(t *testing.T) {
	client := llm.NewClient("test-api-key")
	extractor := llm.NewExtractor(client, llm.WithModel(llm.ModelGPT4oMini))
	require.NotNil(t, extractor)
}

func TestExtractor_UnsupportedDocument(t *testing.T) {
	extractor := llm.NewExtractor(llm.NewClient("test-api-key"))

	_, err := extractor.Extract(context.Background(), &model.Document{
		Content:  []byte("plain text"),
		MimeType: "text/plain",
	})
	require.ErrorIs(t, err, llm.ErrUnsupportedDocument)
}

func TestExtractJSON_CodeBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "json code block",
			input:    "Here is the invoice data:\n```json\n{\"vendor_name\": \"Acme\"}\n```",
			expected: `{"vendor_name": "Acme"}`,
		},
		{
			name:     "generic code block",
			input:    "```\n{\"vendor_name\": \"Globex\"}\n```",
			expected: `{"vendor_name": "Globex"}`,
		},
		{
			name:     "raw json object",
			input:    `  {"vendor_name": "Initech"}  `,
			expected: `{"vendor_name": "Initech"}`,
		},
		{
			name:     "json with explanation",
			input:    "I found the following data:\n```json\n{\"amount\": \"1000\"}\n```\nThis is the total due.",
			expected: `{"amount": "1000"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := llm.ExtractJSON(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestParseFields(t *testing.T) {
	resp := "```json\n" + `{
		"vendor_name": "  Acme Supplies ",
		"due_date": "2026-11-30",
		"amount": "1,250.505",
		"currency": "usd"
	}` + "\n```"

	fields, err := llm.ParseFields(resp)
	require.NoError(t, err)

	assert.Equal(t, "Acme Supplies", fields.VendorName)
	require.NotNil(t, fields.DueDate)
	assert.Equal(t, "2026-11-30", fields.DueDate.Format(time.DateOnly))
	require.NotNil(t, fields.Amount)
	assert.Equal(t, "1250.51", fields.Amount.String())
	assert.Equal(t, "USD", fields.Currency)
}

func TestParseFields_NumericAmountZeroDecimalCurrency(t *testing.T) {
	fields, err := llm.ParseFields(`{"amount": 1500000.4, "currency": "JPY"}`)
	require.NoError(t, err)

	require.NotNil(t, fields.Amount)
	assert.Equal(t, "1500000", fields.Amount.String())
	assert.Equal(t, "JPY", fields.Currency)
	assert.Nil(t, fields.DueDate)
	assert.Empty(t, fields.VendorName)
}

func TestParseFields_DropsInvalidValues(t *testing.T) {
	fields, err := llm.ParseFields(`{"vendor_name": "Acme", "due_date": "30/11/2026", "amount": "lots", "currency": "DOGE"}`)
	require.NoError(t, err)

	assert.Equal(t, "Acme", fields.VendorName)
	assert.Nil(t, fields.DueDate)
	assert.Nil(t, fields.Amount)
	assert.Empty(t, fields.Currency)
}

func TestParseFields_NullAmount(t *testing.T) {
	fields, err := llm.ParseFields(`{"amount": null}`)
	require.NoError(t, err)
	assert.Nil(t, fields.Amount)
}

func TestParseFields_NotJSON(t *testing.T) {
	_, err := llm.ParseFields("I could not read this invoice.")
	require.Error(t, err)
}

func TestModelConstants(t *testing.T) {
	models := []string{
		llm.ModelClaude35Sonnet,
		llm.ModelClaude3Haiku,
		llm.ModelGPT4oMini,
		llm.ModelGPT4o,
		llm.ModelGeminiFlash,
	}

	for _, m := range models {
		assert.NotEmpty(t, m)
		assert.Contains(t, m, "/") // All models have provider/model format
	}
}

func TestPromptTemplates(t *testing.T) {
	assert.Contains(t, llm.SystemPromptInvoiceExtractor, "JSON")
	assert.Contains(t, llm.UserPromptFieldExtraction, "due_date")
	assert.Contains(t, llm.UserPromptFieldExtraction, "vendor_name")
}

func TestDefaultBaseURL(t *testing.T) {
	assert.Equal(t, "https://openrouter.ai/api/v1", llm.DefaultBaseURL)
}

// Benchmark tests

func BenchmarkParseFields(b *testing.B) {
	input := "Here is the data:\n```json\n{\"vendor_name\": \"Acme\", \"amount\": \"1000.00\", \"currency\": \"EUR\"}\n```"

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = llm.ParseFields(input)
	}
}
