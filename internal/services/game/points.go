package game

import (
	"sort"

	"github.com/KirkDiggler/czar/internal/models"
)

// PointRecord is the score held for one identity across rejoins
type PointRecord struct {
	IdentityKey string
	Player      *models.Player
	Points      int
}

// PointsLedger keeps scores by identity key so a rejoining player gets
// their score back even though the Player value may be replaced.
type PointsLedger struct {
	records []*PointRecord
	byKey   map[string]*PointRecord
}

// NewPointsLedger creates an empty ledger
func NewPointsLedger() *PointsLedger {
	return &PointsLedger{
		byKey: make(map[string]*PointRecord),
	}
}

// Register binds player to its identity's record, creating one with zero
// points on first sight. The player's points are set from the record.
func (l *PointsLedger) Register(player *models.Player) *PointRecord {
	key := player.Key()
	record, ok := l.byKey[key]
	if !ok {
		record = &PointRecord{IdentityKey: key}
		l.byKey[key] = record
		l.records = append(l.records, record)
	}
	record.Player = player
	player.Points = record.Points
	return record
}

// Credit gives player one point and returns the new total
func (l *PointsLedger) Credit(player *models.Player) int {
	record, ok := l.byKey[player.Key()]
	if !ok || record.Player != player {
		record = l.Register(player)
	}
	player.Points++
	record.Points = player.Points
	return record.Points
}

// Points returns the score recorded for an identity key
func (l *PointsLedger) Points(key string) (int, bool) {
	record, ok := l.byKey[key]
	if !ok {
		return 0, false
	}
	return record.Points, true
}

// Len returns the number of identities that have played this game
func (l *PointsLedger) Len() int {
	return len(l.records)
}

// Standings returns copies of all records, highest score first. Equal
// scores keep the order players first joined in.
func (l *PointsLedger) Standings() []PointRecord {
	out := make([]PointRecord, 0, len(l.records))
	for _, record := range l.records {
		out = append(out, *record)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Points > out[j].Points
	})
	return out
}
