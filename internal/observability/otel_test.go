package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSampleRatio(t *testing.T) {
	assert.Equal(t, 0.1, SampleRatio(0))
	assert.Equal(t, 0.1, SampleRatio(-3))
	assert.Equal(t, 0.25, SampleRatio(0.25))
	assert.Equal(t, 1.0, SampleRatio(7))
}

func TestParseHeaders(t *testing.T) {
	assert.Nil(t, ParseHeaders(""))
	assert.Nil(t, ParseHeaders("novalue,=x"))
	assert.Equal(t,
		map[string]string{"api-key": "abc", "tenant": "t1"},
		ParseHeaders(" api-key=abc , tenant=t1,broken"),
	)
}
