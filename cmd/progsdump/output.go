package main

import (
	"encoding/json"

	"github.com/hokaccha/go-prettyjson"
	"github.com/spf13/viper"

	"github.com/quaketools/progs/dis"
	"github.com/quaketools/progs/progs"
)

type functionReport struct {
	Index          int     `json:"index"`
	Name           string  `json:"name"`
	File           string  `json:"file"`
	Builtin        bool    `json:"builtin,omitempty"`
	FirstStatement int32   `json:"first_statement"`
	Locals         uint32  `json:"locals"`
	ParmSizes      []uint8 `json:"parm_sizes,omitempty"`
}

type statementReport struct {
	Index    int    `json:"index"`
	Op       string `json:"op"`
	A        int16  `json:"a"`
	B        int16  `json:"b"`
	C        int16  `json:"c"`
	Text     string `json:"text"`
	Function string `json:"function,omitempty"`
}

type globalReport struct {
	Type       string `json:"type"`
	Name       string `json:"name"`
	Offset     uint16 `json:"offset"`
	SaveGlobal bool   `json:"save_global,omitempty"`
	Value      string `json:"value,omitempty"`
	Error      string `json:"error,omitempty"`
}

type report struct {
	Version    uint32            `json:"version"`
	CRC        uint32            `json:"crc"`
	Functions  []functionReport  `json:"functions,omitempty"`
	Statements []statementReport `json:"statements,omitempty"`
	Globals    []globalReport    `json:"globals,omitempty"`
}

// buildReport assembles the JSON-facing view of the requested sections.
// Lookup failures become per-entry placeholders or error fields, matching
// the text reports.
func buildReport(p *progs.Progs, s sections) *report {
	rep := &report{Version: p.Version(), CRC: p.CRC()}
	if s.functions {
		for i := 0; i < p.FunctionCount(); i++ {
			fn := p.FunctionAt(i)
			rep.Functions = append(rep.Functions, functionReport{
				Index:          i,
				Name:           stringOrEmpty(p, int(fn.SName)),
				File:           stringOrEmpty(p, int(fn.SFile)),
				Builtin:        fn.IsBuiltin(),
				FirstStatement: fn.FirstStatement,
				Locals:         fn.Locals,
				ParmSizes:      fn.ParmSizes,
			})
		}
	}
	if s.disasm {
		for _, ins := range dis.Disassemble(p) {
			rep.Statements = append(rep.Statements, statementReport{
				Index:    ins.Index,
				Op:       ins.Statement.Op.String(),
				A:        ins.Statement.A,
				B:        ins.Statement.B,
				C:        ins.Statement.C,
				Text:     ins.Text,
				Function: ins.Comment,
			})
		}
	}
	if s.globals {
		for i := 0; i < p.GlobalDefCount(); i++ {
			def := p.GlobalDefAt(i)
			entry := globalReport{
				Type:       def.Type.String(),
				Name:       stringOrEmpty(p, int(def.SName)),
				Offset:     def.Offset,
				SaveGlobal: def.SaveGlobal,
			}
			if v, err := p.ReadGlobal(def.Offset, def.Type); err != nil {
				entry.Error = err.Error()
			} else {
				entry.Value = v.Inspect()
			}
			rep.Globals = append(rep.Globals, entry)
		}
	}
	return rep
}

func stringOrEmpty(p *progs.Progs, off int) string {
	s, err := p.StringAt(off)
	if err != nil {
		return ""
	}
	return s
}

func getOutputJSON(rep *report) ([]byte, error) {
	if viper.GetBool("no-color") {
		return json.MarshalIndent(rep, "", "  ")
	}
	return prettyjson.Marshal(rep)
}
