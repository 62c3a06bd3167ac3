package analysis

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswer_MarshalJSON(t *testing.T) {
	answers := []Answer{
		CountAnswer(1),
		TitleAnswer("Titanic"),
		CorrelationAnswer(0.5),
		ImageAnswer("data:image/png;base64,AAAA"),
		ErrorAnswer("something failed"),
	}

	data, err := json.Marshal(answers)
	require.NoError(t, err)

	// Each element serializes as its bare value.
	assert.JSONEq(t, `[1,"Titanic",0.5,"data:image/png;base64,AAAA","something failed"]`, string(data))
}

func TestAnswer_IsError(t *testing.T) {
	assert.True(t, ErrorAnswer("boom").IsError())
	assert.False(t, CountAnswer(0).IsError())
	assert.False(t, TitleAnswer("").IsError())
}

func TestAnswer_Value(t *testing.T) {
	assert.Equal(t, 3, CountAnswer(3).Value())
	assert.Equal(t, "A", TitleAnswer("A").Value())
	assert.Equal(t, 0.25, CorrelationAnswer(0.25).Value())
	assert.Equal(t, "oops", ErrorAnswer("oops").Value())
}
