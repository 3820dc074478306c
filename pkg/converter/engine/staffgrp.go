package engine

import (
	"fmt"

	"github.com/james-see/mxl2mei/pkg/mei"
	"github.com/james-see/mxl2mei/pkg/musicxml"
)

type openGroup struct {
	number string
	grp    *mei.StaffGrp
}

// ConvertStaffGrp builds the nested staff group tree from the part list. Groups are
// matched by number, so a stop may close a group that is not innermost. Stops without
// a start are dropped and groups left open are attached to the root, innermost first.
func ConvertStaffGrp(score *musicxml.Score, ctx *Context) *mei.StaffGrp {
	root := &mei.StaffGrp{}
	var stack []openGroup

	appendChild := func(c mei.StaffGrpChild) {
		if len(stack) > 0 {
			top := stack[len(stack)-1].grp
			top.Children = append(top.Children, c)
			return
		}
		root.Children = append(root.Children, c)
	}

	staffN := 1
	for _, item := range score.PartList.Items {
		switch item := item.(type) {
		case *musicxml.ScorePart:
			part, _ := score.FindPart(item.ID)
			appendChild(convertStaffDef(item, staffN, part, ctx))
			ctx.MapID(item.ID, fmt.Sprintf("staff-%d", staffN))
			staffN++

		case *musicxml.PartGroup:
			number := item.Number
			if number == "" {
				number = "1"
			}
			if item.Type == musicxml.Start {
				stack = append(stack, openGroup{number: number, grp: convertPartGroup(item, ctx)})
				continue
			}

			idx := -1
			for i := len(stack) - 1; i >= 0; i-- {
				if stack[i].number == number {
					idx = i
					break
				}
			}
			if idx < 0 {
				ctx.Warn(WarnUnmatchedGroupStop, "part-group stop %s has no open start", number)
				continue
			}
			closed := stack[idx].grp
			stack = append(stack[:idx], stack[idx+1:]...)
			appendChild(closed)
		}
	}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		ctx.Warn(WarnUnclosedGroup, "part-group %s was never stopped", top.number)
		root.Children = append(root.Children, top.grp)
	}

	return root
}

func convertPartGroup(pg *musicxml.PartGroup, ctx *Context) *mei.StaffGrp {
	grp := &mei.StaffGrp{
		ID:        ctx.GenerateIDWithSuffix("staffgrp"),
		Label:     pg.Name,
		LabelAbbr: pg.Abbreviation,
	}
	if pg.Symbol != nil {
		grp.Symbol = groupSymbol(*pg.Symbol)
	}
	if pg.Barline != nil {
		thru := groupBarThru(*pg.Barline)
		grp.BarThru = &thru
	}
	return grp
}

func groupSymbol(s musicxml.GroupSymbol) mei.StaffGrpSymbol {
	switch s {
	case musicxml.SymbolBrace:
		return mei.SymbolBrace
	case musicxml.SymbolBracket:
		return mei.SymbolBracket
	case musicxml.SymbolSquare:
		return mei.SymbolBracketSq
	case musicxml.SymbolLine:
		return mei.SymbolLine
	case musicxml.SymbolNone:
		return mei.SymbolNone
	}
	return mei.SymbolUnset
}

// groupBarThru reports whether barlines are drawn through the group's staves.
// Mensurstrich is treated like "no".
func groupBarThru(b musicxml.GroupBarline) bool {
	switch b {
	case musicxml.BarlineYes:
		return true
	case musicxml.BarlineNo, musicxml.BarlineMensurstrich:
		return false
	}
	return false
}

func convertStaffDef(sp *musicxml.ScorePart, n int, part *musicxml.Part, ctx *Context) *mei.StaffDef {
	def := &mei.StaffDef{
		N:         n,
		Lines:     5,
		ClefShape: "G",
		ClefLine:  2,
		Label:     sp.Name,
		LabelAbbr: sp.Abbreviation,
	}
	if attrs := firstAttributes(part); attrs != nil {
		ctx.SetPart(sp.ID)
		applyInitialAttributes(def, attrs, ctx)
	}
	def.ID = ctx.GenerateIDWithSuffix("staffdef")
	return def
}
