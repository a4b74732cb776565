package model

import (
	"errors"
	"fmt"

	"github.com/atomicstack/tui-mixer/internal/entry"
	"github.com/atomicstack/tui-mixer/internal/event"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// ErrStaleMoveEntry means a MoveEntry mode refers to an entry that no longer
// exists. It indicates the mode and the entry model fell out of sync.
var ErrStaleMoveEntry = errors.New("move entry refers to a missing entry")

// Row is one line of a projected page.
type Row struct {
	Ident entry.Identifier
	// Child rows are streams listed under their device.
	Child bool
	// Preview marks the dragged entry while a move is being previewed.
	Preview bool
}

// ParentChildTypes returns the device and stream types shown on a page.
func ParentChildTypes(page event.Page) (entry.Type, entry.Type) {
	if page == event.PageInput {
		return entry.Source, entry.SourceOutput
	}
	return entry.Sink, entry.SinkInput
}

// NextPage cycles through the pages by delta.
func NextPage(page event.Page, delta int) event.Page {
	const pages = 3
	n := (int(page) + delta) % pages
	if n < 0 {
		n += pages
	}
	return event.Page(n)
}

// Project returns the ordered rows of one page. It never mutates entries
// and is recomputed from scratch on every call.
func Project(entries *entry.Entries, mode UIMode, page event.Page, filter string) ([]Row, error) {
	if page == event.PageCards {
		var rows []Row
		for _, id := range entries.IterType(entry.Card) {
			en, _ := entries.Get(id)
			if !matches(filter, en) {
				continue
			}
			rows = append(rows, Row{Ident: id})
		}
		return rows, nil
	}

	if mode.Kind == ModeMoveEntry {
		return projectMove(entries, mode)
	}

	parentType, childType := ParentChildTypes(page)
	var rows []Row
	for _, pid := range entries.IterType(parentType) {
		parent, _ := entries.Get(pid)
		parentMatch := matches(filter, parent)
		var children []Row
		for _, cid := range entries.Children(pid, childType) {
			child, _ := entries.Get(cid)
			if child.Hidden == entry.Hidden {
				continue
			}
			if parentMatch || matches(filter, child) {
				children = append(children, Row{Ident: cid, Child: true})
			}
		}
		if !parentMatch && len(children) == 0 {
			continue
		}
		rows = append(rows, Row{Ident: pid})
		rows = append(rows, children...)
	}
	return rows, nil
}

// projectMove lists the devices of the target's type with the dragged entry
// interleaved right after the target.
func projectMove(entries *entry.Entries, mode UIMode) ([]Row, error) {
	if !entries.Contains(mode.Dragged) {
		return nil, fmt.Errorf("dragged %s: %w", mode.Dragged, ErrStaleMoveEntry)
	}
	parents := entries.IterType(mode.Target.Type)
	at := -1
	for i, id := range parents {
		if id == mode.Target {
			at = i
			break
		}
	}
	if at < 0 {
		return nil, fmt.Errorf("target %s: %w", mode.Target, ErrStaleMoveEntry)
	}
	rows := make([]Row, 0, len(parents)+1)
	for i, id := range parents {
		rows = append(rows, Row{Ident: id})
		if i == at {
			rows = append(rows, Row{Ident: mode.Dragged, Child: true, Preview: true})
		}
	}
	return rows, nil
}

func matches(filter string, en *entry.Entry) bool {
	if filter == "" {
		return true
	}
	if fuzzy.MatchFold(filter, en.Name) {
		return true
	}
	return en.Play != nil && en.Play.Application != "" && fuzzy.MatchFold(filter, en.Play.Application)
}
