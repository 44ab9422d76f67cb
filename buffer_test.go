package constellation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBufferInvalid(t *testing.T) {
	if _, err := newBuffer(-1); err == nil {
		t.Error("expected error, got nil")
	}
	if _, err := newBuffer(NumBuckets); err == nil {
		t.Error("expected error, got nil")
	}
}

func TestBufferPushWrongBucket(t *testing.T) {
	buf, err := newBuffer(2)
	if err != nil {
		t.Fatal("expected no err, got", err)
	}
	if err := buf.push(31); err == nil {
		t.Error("expected value from bucket 3 to be rejected")
	}
	if val := buf.size(); val != 0 {
		t.Error("expected empty buffer, got", val)
	}
}

func TestBufferMembers(t *testing.T) {
	assert := assert.New(t)
	buf, err := newBuffer(2)
	assert.NoError(err)

	for _, v := range []float64{25, 21, 29.5, 21, 20} {
		assert.NoError(buf.push(v))
	}

	assert.Equal(5, buf.size())
	assert.Equal([]float64{25, 21, 29.5, 21, 20}, buf.members())

	avg, ok := buf.average()
	assert.True(ok)
	assert.InDelta(23.3, avg, 1e-9)

	// Small streams are answered exactly.
	assert.Equal(21.0, buf.query(0.5))
	assert.Equal(29.5, buf.query(0.9))
}

func TestBufferMembersCopy(t *testing.T) {
	buf, _ := newBuffer(0)
	buf.push(5)
	got := buf.members()
	got[0] = 99
	if buf.members()[0] != 5 {
		t.Error("members must not alias the buffer")
	}
}

func TestBufferEmpty(t *testing.T) {
	buf, _ := newBuffer(9)
	if _, ok := buf.average(); ok {
		t.Error("expected no average for empty buffer")
	}
	if val := buf.query(0.5); val != 0 {
		t.Error("expected 0, got", val)
	}
}
