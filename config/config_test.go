package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultReaderOptions(t *testing.T) {
	opts := DefaultReaderOptions()
	assert.Equal(t, 1024, opts.BatchSize)
	assert.True(t, opts.ThrowOnHive11DecimalOverflow)
	assert.False(t, opts.UseTightNumericVectors)
	assert.False(t, opts.ConvertToReadType)
	assert.False(t, opts.IsDecimalAsLong)
	assert.Nil(t, opts.MemoryPool)
	assert.Nil(t, opts.ReaderMetrics)
}
