package automation

import "sync/atomic"

// Choice sentinels. ChoiceNone marks an unset slot; ChoiceRandom (pick only)
// selects uniformly among unbanned catalog entries.
const (
	ChoiceNone   = "None"
	ChoiceRandom = "Random"
)

// PickIntent is the user's pick-lock configuration. Each field is an
// independently atomic scalar: the UI thread writes, poller goroutines read
// every iteration, and a read that is one update behind is harmless because
// the next tick observes the fresh value.
type PickIntent struct {
	enabled  atomic.Bool
	champion atomic.Pointer[string]
	backup2  atomic.Pointer[string]
	backup3  atomic.Pointer[string]
}

// PickSnapshot is a point-in-time copy of a PickIntent.
type PickSnapshot struct {
	Enabled  bool
	Champion string
	Backup2  string
	Backup3  string
}

// NewPickIntent returns a disabled intent with all slots unset.
func NewPickIntent() *PickIntent {
	i := &PickIntent{}
	i.champion.Store(ptr(ChoiceNone))
	i.backup2.Store(ptr(ChoiceNone))
	i.backup3.Store(ptr(ChoiceNone))
	return i
}

func (i *PickIntent) Enabled() bool        { return i.enabled.Load() }
func (i *PickIntent) SetEnabled(on bool)   { i.enabled.Store(on) }
func (i *PickIntent) Toggle() bool         { return toggle(&i.enabled) }
func (i *PickIntent) Champion() string     { return *i.champion.Load() }
func (i *PickIntent) SetChampion(n string) { i.champion.Store(ptr(n)) }
func (i *PickIntent) Backup2() string      { return *i.backup2.Load() }
func (i *PickIntent) SetBackup2(n string)  { i.backup2.Store(ptr(n)) }
func (i *PickIntent) Backup3() string      { return *i.backup3.Load() }
func (i *PickIntent) SetBackup3(n string)  { i.backup3.Store(ptr(n)) }

// Snapshot reads every field once. Fields are independently meaningful, no
// cross-field invariant spans the reads.
func (i *PickIntent) Snapshot() PickSnapshot {
	return PickSnapshot{
		Enabled:  i.enabled.Load(),
		Champion: *i.champion.Load(),
		Backup2:  *i.backup2.Load(),
		Backup3:  *i.backup3.Load(),
	}
}

// BanIntent is the user's ban-lock configuration.
type BanIntent struct {
	enabled  atomic.Bool
	champion atomic.Pointer[string]
}

// BanSnapshot is a point-in-time copy of a BanIntent.
type BanSnapshot struct {
	Enabled  bool
	Champion string
}

// NewBanIntent returns a disabled intent with no champion set.
func NewBanIntent() *BanIntent {
	i := &BanIntent{}
	i.champion.Store(ptr(ChoiceNone))
	return i
}

func (i *BanIntent) Enabled() bool        { return i.enabled.Load() }
func (i *BanIntent) SetEnabled(on bool)   { i.enabled.Store(on) }
func (i *BanIntent) Toggle() bool         { return toggle(&i.enabled) }
func (i *BanIntent) Champion() string     { return *i.champion.Load() }
func (i *BanIntent) SetChampion(n string) { i.champion.Store(ptr(n)) }

func (i *BanIntent) Snapshot() BanSnapshot {
	return BanSnapshot{
		Enabled:  i.enabled.Load(),
		Champion: *i.champion.Load(),
	}
}

func ptr(s string) *string { return &s }

func toggle(b *atomic.Bool) bool {
	for {
		old := b.Load()
		if b.CompareAndSwap(old, !old) {
			return !old
		}
	}
}
