package models

// Document is the full persisted state: one JSON document per process,
// keyed internally by guild id
type Document struct {
	// Guilds maps guild id (as a decimal string) to its sub-document
	Guilds map[string]*GuildState `json:"guilds"`
}

// NewDocument returns an empty default document
func NewDocument() *Document {
	return &Document{
		Guilds: map[string]*GuildState{},
	}
}

// Guild returns the sub-document for a guild, creating it in place on first
// touch
func (d *Document) Guild(guildID string) *GuildState {
	if d.Guilds == nil {
		d.Guilds = map[string]*GuildState{}
	}
	g, ok := d.Guilds[guildID]
	if !ok {
		g = NewGuildState()
		d.Guilds[guildID] = g
	}
	return g
}

// Clone returns an independent deep copy of the document
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	cp := NewDocument()
	for id, g := range d.Guilds {
		cp.Guilds[id] = g.Clone()
	}
	return cp
}
