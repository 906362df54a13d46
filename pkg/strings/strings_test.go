package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuilder(t *testing.T) {
	builder := NewBuilder(32)

	builder.WriteString("hello")
	_ = builder.WriteByte(' ')
	builder.WriteString("world")

	assert.Equal(t, "hello world", builder.String())
	assert.Equal(t, 11, builder.Len())

	builder.Reset()
	assert.Equal(t, 0, builder.Len())
}

func TestSprintf(t *testing.T) {
	assert.Equal(t, "plain", Sprintf("plain"))
	assert.Equal(t, "row 3 of 7", Sprintf("row %d of %d", 3, 7))
}

func TestPooledBuildersAreReset(t *testing.T) {
	b := GetBuilder(Small)
	b.WriteString("dirty")
	PutBuilder(b, Small)

	again := GetBuilder(Small)
	defer PutBuilder(again, Small)
	assert.Equal(t, 0, again.Len())
}

func TestStripGrouping(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1,234,567", "1234567"},
		{"1_000", "1000"},
		{"12 345.5", "12345.5"},
		{"9 999", "9999"},
		{"-42", "-42"},
		{"", ""},
		{"ünïcode,x", "ünïcodex"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StripGrouping(tt.in), tt.in)
	}
}
