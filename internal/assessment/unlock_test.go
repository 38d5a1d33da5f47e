package assessment

import (
	"testing"
	"time"
)

func confirmedRecord(index int) CompletionRecord {
	return CompletionRecord{
		CategoryIndex:   index,
		Submitted:       true,
		RemoteConfirmed: true,
		SubmittedAt:     time.Now(),
		QuestionsCount:  QuestionsPerCategory,
	}
}

func TestIsUnlocked_FirstCategoryAlwaysOpen(t *testing.T) {
	if !IsUnlocked(Categories[0], CompletionSet{}, false) {
		t.Error("expected first category unlocked with no records")
	}
}

func TestIsUnlocked_RequiresPreviousConfirmed(t *testing.T) {
	records := CompletionSet{}

	for i := 1; i < len(Categories); i++ {
		if IsUnlocked(Categories[i], records, false) {
			t.Errorf("category %d unlocked without predecessor record", i)
		}
	}

	records[0] = confirmedRecord(0)
	if !IsUnlocked(Categories[1], records, false) {
		t.Error("expected category 2 unlocked after category 1 confirmed")
	}
	if IsUnlocked(Categories[2], records, false) {
		t.Error("category 3 must stay locked until category 2 is confirmed")
	}
}

func TestIsUnlocked_LocalOnlyCompletionDoesNotUnlock(t *testing.T) {
	records := CompletionSet{
		0: {CategoryIndex: 0, Submitted: true, RemoteConfirmed: false},
	}
	if IsUnlocked(Categories[1], records, false) {
		t.Error("unsynced completion must not unlock the next category")
	}
}

func TestIsUnlocked_CooldownLocksEverything(t *testing.T) {
	records := CompletionSet{}
	for i := range Categories {
		records[i] = confirmedRecord(i)
	}
	for i, c := range Categories {
		if IsUnlocked(c, records, true) {
			t.Errorf("category %d unlocked while on cooldown", i)
		}
	}
}

func TestUnlockedSet_SequentialChain(t *testing.T) {
	records := CompletionSet{
		0: confirmedRecord(0),
		1: confirmedRecord(1),
	}
	got := UnlockedSet(records, false)
	want := []bool{true, true, true, false, false}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("UnlockedSet[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
