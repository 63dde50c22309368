package social

// Score ranks a tribe for the history record.
func Score(t *Tribe) int {
	troops, weapons, chiefs := t.Totals()
	return troops + weapons + 10*t.ActiveGarrisons() + 25*len(t.CompletedTechs) + 5*chiefs
}

// TribeRecord is one tribe's line in a history entry.
type TribeRecord struct {
	TribeID   string `json:"tribe_id"`
	Score     int    `json:"score"`
	Troops    int    `json:"troops"`
	Garrisons int    `json:"garrisons"`
}

// TurnHistoryRecord summarizes the world after one turn.
type TurnHistoryRecord struct {
	Turn         int           `json:"turn"`
	TribeRecords []TribeRecord `json:"tribe_records"`
}
