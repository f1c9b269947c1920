package services

import (
	"sync"

	"github.com/puzpuzpuz/xsync/v3"
)

// MemberLocks serializes every read-modify-write cycle for one
// (guild, member) key. Events for different members run concurrently;
// events for the same member (a message racing a voice close, a voice
// close racing a channel switch) never interleave their store updates.
//
// The lock is not reentrant: entry-point services acquire it, inner
// services (progression, quests) assume the caller holds it.
type MemberLocks struct {
	locks *xsync.MapOf[string, *sync.Mutex]
}

func NewMemberLocks() *MemberLocks {
	return &MemberLocks{locks: xsync.NewMapOf[string, *sync.Mutex]()}
}

// Lock blocks until the member key is held and returns the unlock func.
// Entries are kept for the process lifetime; the set is bounded by the
// number of members ever seen.
func (l *MemberLocks) Lock(guildID, discordID string) func() {
	mu, _ := l.locks.LoadOrCompute(guildID+":"+discordID, func() *sync.Mutex {
		return &sync.Mutex{}
	})
	mu.Lock()
	return mu.Unlock
}
