package view

import "sort"

// ElementSnapshot is a read-only copy of one element.
type ElementSnapshot struct {
	ID       string   `json:"id"`
	Classes  []string `json:"classes,omitempty"`
	Text     string   `json:"text,omitempty"`
	Opacity  float64  `json:"opacity"`
	Rows     []Row    `json:"rows,omitempty"`
	Controls []string `json:"controls,omitempty"`
}

// PageSnapshot is a read-only copy of the whole page. Form inputs are left out.
type PageSnapshot struct {
	Hidden   bool              `json:"hidden"`
	Elements []ElementSnapshot `json:"elements"`
	Alerts   []PlacedAlert     `json:"alerts"`
}

// Snapshot copies the page, elements in id order.
func (d *Document) Snapshot() PageSnapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()

	snap := PageSnapshot{
		Hidden:   d.hidden,
		Elements: make([]ElementSnapshot, 0, len(d.elements)),
		Alerts:   append([]PlacedAlert{}, d.alerts...),
	}
	for _, el := range d.elements {
		es := ElementSnapshot{
			ID:      el.id,
			Text:    el.text,
			Opacity: el.opacity,
			Rows:    append([]Row(nil), el.rows...),
		}
		for c := range el.classes {
			es.Classes = append(es.Classes, c)
		}
		sort.Strings(es.Classes)
		for _, c := range el.controls {
			es.Controls = append(es.Controls, c.Name)
		}
		snap.Elements = append(snap.Elements, es)
	}
	sort.Slice(snap.Elements, func(i, j int) bool {
		return snap.Elements[i].ID < snap.Elements[j].ID
	})
	return snap
}
