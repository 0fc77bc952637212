package automation

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPickIntentDefaults(t *testing.T) {
	i := NewPickIntent()

	assert.False(t, i.Enabled())
	assert.Equal(t, ChoiceNone, i.Champion())
	assert.Equal(t, ChoiceNone, i.Backup2())
	assert.Equal(t, ChoiceNone, i.Backup3())
}

func TestPickIntentSnapshot(t *testing.T) {
	i := NewPickIntent()
	i.SetEnabled(true)
	i.SetChampion("ahri")
	i.SetBackup2("akali")

	snap := i.Snapshot()
	assert.True(t, snap.Enabled)
	assert.Equal(t, "ahri", snap.Champion)
	assert.Equal(t, "akali", snap.Backup2)
	assert.Equal(t, ChoiceNone, snap.Backup3)
}

func TestBanIntentToggle(t *testing.T) {
	i := NewBanIntent()

	assert.True(t, i.Toggle())
	assert.True(t, i.Enabled())
	assert.False(t, i.Toggle())
	assert.False(t, i.Enabled())
}

func TestToggleIsConsistentUnderContention(t *testing.T) {
	i := NewPickIntent()

	const flips = 1000
	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := 0; n < flips; n++ {
				i.Toggle()
			}
		}()
	}
	wg.Wait()

	// 4000 flips from false lands on false again.
	assert.False(t, i.Enabled())
}
