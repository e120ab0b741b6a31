package models

// SignalRow is one indexed signal in the query database.
type SignalRow struct {
	ID              uint   `json:"id" gorm:"primaryKey"`
	LoadID          string `json:"load_id" gorm:"index"`
	Theme           string `json:"theme" gorm:"index"`
	RawLabel        string `json:"raw_label"`
	Position        int    `json:"position"`
	Ask             string `json:"ask"`
	Priority        string `json:"priority" gorm:"index"`
	TranscriptID    string `json:"transcript_id" gorm:"index"`
	TranscriptTitle string `json:"transcript_title"`
	Started         string `json:"started"`
	Evidence        string `json:"evidence"`
}

// Rows flattens a document into index rows in export order.
func Rows(loadID string, doc *Document) []SignalRow {
	var rows []SignalRow
	pos := 0
	for _, t := range doc.Themes {
		for _, g := range t.Groups {
			for _, s := range g.Signals {
				rows = append(rows, SignalRow{
					LoadID:          loadID,
					Theme:           t.Name,
					RawLabel:        g.Label,
					Position:        pos,
					Ask:             s.Ask,
					Priority:        s.Label(),
					TranscriptID:    s.TranscriptID,
					TranscriptTitle: s.TranscriptTitle,
					Started:         s.Started,
					Evidence:        s.Evidence,
				})
				pos++
			}
		}
	}
	return rows
}
