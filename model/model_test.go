package model

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slindgren720/eventflow/core"
	"github.com/slindgren720/eventflow/stream"
)

func drain(t *testing.T, p *stream.Pipeline[Response]) ([]Response, error) {
	t.Helper()
	var out []Response
	ctx := context.Background()
	for p.Next(ctx) {
		out = append(out, p.Current())
	}
	return out, p.Err()
}

func userRequest(text string, streaming bool) Request {
	return Request{
		Contents: []core.Content{core.NewTextContent("user", text)},
		Stream:   streaming,
	}
}

func TestMockModel_Generate(t *testing.T) {
	m := NewMockModel("test-model")
	m.AddResponse("hi", "hello there")

	got, err := drain(t, m.Generate(context.Background(), userRequest("hi", false)))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.False(t, got[0].Partial)
	assert.Equal(t, "hello there", got[0].Content.Text())
	assert.Equal(t, "stop", got[0].FinishReason)
}

func TestMockModel_GenerateStreaming(t *testing.T) {
	m := NewMockModel("test-model")
	m.AddResponse("hi", "abc")

	got, err := drain(t, m.Generate(context.Background(), userRequest("hi", true)))
	require.NoError(t, err)
	require.Len(t, got, 4)

	var text string
	for _, r := range got[:3] {
		assert.True(t, r.Partial)
		text += r.Content.Text()
	}
	assert.Equal(t, "abc", text)
	assert.False(t, got[3].Partial)
	assert.Equal(t, "abc", got[3].Content.Text())
}

func TestMockModel_DefaultResponse(t *testing.T) {
	m := NewMockModel("test-model")

	got, err := drain(t, m.Generate(context.Background(), userRequest("unknown", false)))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Mock response to: unknown", got[0].Content.Text())
}

func TestMockModel_EmptyContents(t *testing.T) {
	m := NewMockModel("test-model")

	got, err := drain(t, m.Generate(context.Background(), Request{}))
	assert.Empty(t, got)
	var perr *stream.ProducerError
	require.ErrorAs(t, err, &perr)
}

func TestMockModel_FailWith(t *testing.T) {
	boom := errors.New("provider down")
	m := NewMockModel("test-model")
	m.FailWith(boom)

	_, err := drain(t, m.Generate(context.Background(), userRequest("hi", false)))
	assert.ErrorIs(t, err, boom)
}

func TestMockModel_Info(t *testing.T) {
	m := NewMockModel("test-model")
	info := m.Info()
	assert.Equal(t, "test-model", info.Name)
	assert.Equal(t, "mock", info.Provider)
	assert.True(t, info.SupportsTools)
}
