package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCollectorRecordAndSnapshot(t *testing.T) {
	c := NewCollector()

	c.RecordEncrypt(true, 10*time.Microsecond)
	c.RecordEncrypt(false, 20*time.Microsecond)
	c.RecordDecrypt(true, 5*time.Microsecond)
	c.RecordKill()
	c.RecordReplayRejected()
	c.RecordPolicyDenial()

	snap := c.GetSnapshot()
	assert.Equal(t, int64(2), snap.EncryptCount)
	assert.Equal(t, int64(1), snap.EncryptErrors)
	assert.Equal(t, int64(1), snap.DecryptCount)
	assert.Equal(t, int64(1), snap.KillsExecuted)
	assert.Equal(t, int64(1), snap.ReplayRejected)
	assert.Equal(t, int64(1), snap.PolicyDenials)
	assert.InDelta(t, 15, snap.AvgEncryptTime, 0.001)
}

func TestCollectorReset(t *testing.T) {
	c := NewCollector()
	c.RecordEncrypt(true, time.Microsecond)
	c.Reset()

	snap := c.GetSnapshot()
	assert.Zero(t, snap.EncryptCount)
}

func TestGlobalCollector(t *testing.T) {
	assert.NotNil(t, GetGlobalCollector())
}
