package view

import (
	"sort"
	"sync"
)

// MutationKind names what changed on the page.
type MutationKind string

const (
	MutationText         MutationKind = "text"
	MutationClass        MutationKind = "class"
	MutationOpacity      MutationKind = "opacity"
	MutationRows         MutationKind = "rows"
	MutationControl      MutationKind = "control"
	MutationAlertAdded   MutationKind = "alert_added"
	MutationAlertRemoved MutationKind = "alert_removed"
	MutationVisibility   MutationKind = "visibility"
)

// Mutation describes one applied change, delivered to subscribers after the change is visible.
// Seq increases by one per mutation and subscribers receive mutations in Seq order.
type Mutation struct {
	Seq       uint64       `json:"seq"`
	Kind      MutationKind `json:"kind"`
	ElementID string       `json:"element_id,omitempty"`
	Value     interface{}  `json:"value,omitempty"`
}

// ClassChange is the Value of a MutationClass.
type ClassChange struct {
	Class   string `json:"class"`
	Present bool   `json:"present"`
}

// PlacedAlert is an alert together with the container it was prepended to.
type PlacedAlert struct {
	ContainerID string `json:"container_id"`
	Alert
}

type element struct {
	id       string
	classes  map[string]struct{}
	text     string
	opacity  float64
	rows     []Row
	controls []Control
}

// Document is an in-memory page. All methods are safe for concurrent use.
// Listeners run outside the page lock and may read the page, but must not change it.
type Document struct {
	mu        sync.RWMutex
	seq       uint64
	elements  map[string]*element
	inputs    map[string]string
	alerts    []PlacedAlert // newest first
	hidden    bool
	observers []func(hidden bool)
	listeners map[int]func(Mutation)
	nextSub   int

	// Delivery is serialized by sequence number: mutation n is handed out only after n-1.
	deliveryMu sync.Mutex
	delivered  uint64
	turn       *sync.Cond
}

var _ Binding = (*Document)(nil)

// NewDocument creates an empty, visible page.
func NewDocument() *Document {
	d := &Document{
		elements:  make(map[string]*element),
		inputs:    make(map[string]string),
		listeners: make(map[int]func(Mutation)),
	}
	d.turn = sync.NewCond(&d.deliveryMu)
	return d
}

// AddElement adds (or replaces) an element with the given classes.
func (d *Document) AddElement(id string, classes ...string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	el := &element{
		id:      id,
		classes: make(map[string]struct{}, len(classes)),
		opacity: 1,
	}
	for _, c := range classes {
		el.classes[c] = struct{}{}
	}
	d.elements[id] = el
}

// RemoveElement drops an element from the page.
func (d *Document) RemoveElement(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.elements, id)
}

// SetInput sets the value of a named form input.
func (d *Document) SetInput(name, value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.inputs[name] = value
}

// RemoveInput drops a named form input.
func (d *Document) RemoveInput(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.inputs, name)
}

func (d *Document) Has(id string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.elements[id]
	return ok
}

func (d *Document) SetText(id, value string) bool {
	ok := d.mutate(id, func(el *element) *Mutation {
		el.text = value
		return &Mutation{Kind: MutationText, ElementID: id, Value: value}
	})
	return ok
}

// Text returns the element's text and whether the element exists.
func (d *Document) Text(id string) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	el, ok := d.elements[id]
	if !ok {
		return "", false
	}
	return el.text, true
}

func (d *Document) AddClass(id, class string) {
	d.mutate(id, func(el *element) *Mutation {
		el.classes[class] = struct{}{}
		return &Mutation{Kind: MutationClass, ElementID: id, Value: ClassChange{Class: class, Present: true}}
	})
}

func (d *Document) RemoveClass(id, class string) {
	d.mutate(id, func(el *element) *Mutation {
		if _, ok := el.classes[class]; !ok {
			return nil
		}
		delete(el.classes, class)
		return &Mutation{Kind: MutationClass, ElementID: id, Value: ClassChange{Class: class, Present: false}}
	})
}

// HasClass reports whether the element exists and carries class.
func (d *Document) HasClass(id, class string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	el, ok := d.elements[id]
	if !ok {
		return false
	}
	_, ok = el.classes[class]
	return ok
}

func (d *Document) SetOpacity(id string, opacity float64) {
	d.mutate(id, func(el *element) *Mutation {
		el.opacity = opacity
		return &Mutation{Kind: MutationOpacity, ElementID: id, Value: opacity}
	})
}

// Opacity returns the element's opacity, 0 when the element is absent.
func (d *Document) Opacity(id string) float64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if el, ok := d.elements[id]; ok {
		return el.opacity
	}
	return 0
}

func (d *Document) ReplaceRows(id string, rows []Row) bool {
	copied := append([]Row(nil), rows...)
	return d.mutate(id, func(el *element) *Mutation {
		el.rows = copied
		return &Mutation{Kind: MutationRows, ElementID: id, Value: copied}
	})
}

// Rows returns a copy of the element's rows.
func (d *Document) Rows(id string) []Row {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if el, ok := d.elements[id]; ok {
		return append([]Row(nil), el.rows...)
	}
	return nil
}

// ElementsWithClass returns the matching element ids in lexical order.
func (d *Document) ElementsWithClass(class string) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var ids []string
	for id, el := range d.elements {
		if _, ok := el.classes[class]; ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

func (d *Document) AttachControl(id string, control Control) {
	d.mutate(id, func(el *element) *Mutation {
		el.controls = append(el.controls, control)
		return &Mutation{Kind: MutationControl, ElementID: id, Value: control.Name}
	})
}

// Click runs every control named name attached to the element.
// It reports whether at least one control ran.
func (d *Document) Click(id, name string) bool {
	d.mu.RLock()
	var handlers []func()
	if el, ok := d.elements[id]; ok {
		for _, c := range el.controls {
			if c.Name == name && c.OnClick != nil {
				handlers = append(handlers, c.OnClick)
			}
		}
	}
	d.mu.RUnlock()

	for _, h := range handlers {
		h()
	}
	return len(handlers) > 0
}

func (d *Document) PrependAlert(containerID string, alert Alert) {
	d.mu.Lock()
	d.alerts = append([]PlacedAlert{{ContainerID: containerID, Alert: alert}}, d.alerts...)
	deliver := d.emitLocked(Mutation{Kind: MutationAlertAdded, ElementID: containerID, Value: alert})
	d.mu.Unlock()

	deliver()
}

func (d *Document) RemoveAlert(alertID string) bool {
	d.mu.Lock()
	idx := -1
	for i, a := range d.alerts {
		if a.ID == alertID {
			idx = i
			break
		}
	}
	if idx < 0 {
		d.mu.Unlock()
		return false
	}
	removed := d.alerts[idx]
	d.alerts = append(d.alerts[:idx:idx], d.alerts[idx+1:]...)
	deliver := d.emitLocked(Mutation{Kind: MutationAlertRemoved, ElementID: removed.ContainerID, Value: removed.Alert})
	d.mu.Unlock()

	deliver()
	return true
}

// Alerts returns the alerts of one container, newest first.
func (d *Document) Alerts(containerID string) []Alert {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var alerts []Alert
	for _, a := range d.alerts {
		if a.ContainerID == containerID {
			alerts = append(alerts, a.Alert)
		}
	}
	return alerts
}

func (d *Document) InputValue(name string) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.inputs[name]
}

func (d *Document) OnVisibilityChange(fn func(hidden bool)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.observers = append(d.observers, fn)
}

// SetHidden changes page visibility. Observers only hear about actual transitions.
func (d *Document) SetHidden(hidden bool) {
	d.mu.Lock()
	if d.hidden == hidden {
		d.mu.Unlock()
		return
	}
	d.hidden = hidden
	observers := make([]func(bool), len(d.observers))
	copy(observers, d.observers)
	deliver := d.emitLocked(Mutation{Kind: MutationVisibility, Value: hidden})
	d.mu.Unlock()

	deliver()
	for _, fn := range observers {
		fn(hidden)
	}
}

// Hidden reports whether the page is currently hidden.
func (d *Document) Hidden() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.hidden
}

// Subscribe registers fn for every future mutation and returns a function that unregisters it.
func (d *Document) Subscribe(fn func(Mutation)) func() {
	d.mu.Lock()
	defer d.mu.Unlock()

	id := d.nextSub
	d.nextSub++
	d.listeners[id] = fn

	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		delete(d.listeners, id)
	}
}

// mutate applies change to an existing element and notifies listeners.
// It reports whether the element existed.
func (d *Document) mutate(id string, change func(el *element) *Mutation) bool {
	d.mu.Lock()
	el, ok := d.elements[id]
	if !ok {
		d.mu.Unlock()
		return false
	}
	m := change(el)
	if m == nil {
		d.mu.Unlock()
		return true
	}
	deliver := d.emitLocked(*m)
	d.mu.Unlock()

	deliver()
	return true
}

// emitLocked stamps m with the next sequence number and returns the function that
// hands it to the listeners. It must be called with d.mu held; the caller releases
// d.mu and then calls the returned function exactly once.
func (d *Document) emitLocked(m Mutation) func() {
	d.seq++
	m.Seq = d.seq

	listeners := make([]func(Mutation), 0, len(d.listeners))
	for _, fn := range d.listeners {
		listeners = append(listeners, fn)
	}

	return func() {
		d.deliveryMu.Lock()
		for d.delivered != m.Seq-1 {
			d.turn.Wait()
		}
		d.deliveryMu.Unlock()

		for _, fn := range listeners {
			fn(m)
		}

		d.deliveryMu.Lock()
		d.delivered = m.Seq
		d.deliveryMu.Unlock()
		d.turn.Broadcast()
	}
}
