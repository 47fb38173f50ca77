// Package asm implements Component B of the toolchain: the assembler that
// turns the IR generator's textual assembly into the fixed binary image
// the virtual machine loads and executes.
package asm

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cseidman/coyotelang/lang/bytecode"
)

// Assemble parses textual assembly and encodes it as a binary image.
func Assemble(src string) (*bytecode.Image, error) {
	img, err := Parse(src)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// Parse reads the textual assembly format produced by lang/gen into an
// in-memory Image. The ".start" trailer is validated but not retained: the
// binary layout has no slot for it, since the VM's loader always starts
// subroutine 0 directly.
func Parse(src string) (*bytecode.Image, error) {
	sc := bufio.NewScanner(strings.NewReader(src))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	p := &parser{sc: sc}
	if err := p.parseStrings(); err != nil {
		return nil, err
	}
	if err := p.parseSubs(); err != nil {
		return nil, err
	}
	if err := p.parseStart(); err != nil {
		return nil, err
	}
	return &bytecode.Image{Subs: p.subs, Pool: p.pool}, nil
}

type parser struct {
	sc      *bufio.Scanner
	line    string
	lineNum int
	pool    []string
	subs    []bytecode.Sub
}

func (p *parser) nextLine() bool {
	for p.sc.Scan() {
		p.lineNum++
		line := strings.TrimSpace(p.sc.Text())
		if line == "" {
			continue
		}
		p.line = line
		return true
	}
	return false
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("asm: line %d: %s", p.lineNum, fmt.Sprintf(format, args...))
}

func (p *parser) parseStrings() error {
	if !p.nextLine() {
		return p.errorf("expected .strings section, got EOF")
	}
	var count int
	if _, err := fmt.Sscanf(p.line, ".strings %d", &count); err != nil {
		return p.errorf("malformed .strings header: %q", p.line)
	}
	p.pool = make([]string, 0, count)
	for i := 0; i < count; i++ {
		if !p.nextLine() {
			return p.errorf("expected %d pooled strings, got %d", count, i)
		}
		s, err := strconv.Unquote(p.line)
		if err != nil {
			return p.errorf("malformed pooled string %q: %v", p.line, err)
		}
		p.pool = append(p.pool, s)
	}
	return nil
}

func (p *parser) parseSubs() error {
	if !p.nextLine() {
		return p.errorf("expected .subs section, got EOF")
	}
	var count int
	if _, err := fmt.Sscanf(p.line, ".subs %d", &count); err != nil {
		return p.errorf("malformed .subs header: %q", p.line)
	}
	p.subs = make([]bytecode.Sub, 0, count)
	for i := 0; i < count; i++ {
		sub, err := p.parseSub()
		if err != nil {
			return err
		}
		p.subs = append(p.subs, sub)
	}
	return nil
}

func (p *parser) parseSub() (bytecode.Sub, error) {
	var sub bytecode.Sub
	if !p.nextLine() {
		return sub, p.errorf("expected .sub header, got EOF")
	}
	name, arity, slots, lines, byteLen, err := parseSubHeader(p.line)
	if err != nil {
		return sub, p.errorf("malformed .sub header: %q: %v", p.line, err)
	}
	sub.Arity = uint8(arity)
	sub.Slots = uint8(slots)

	var buf []byte
	for i := 0; i < lines; i++ {
		if !p.nextLine() {
			return sub, p.errorf("expected %d instruction lines, got %d", lines, i)
		}
		enc, err := p.parseInstrLine(p.line)
		if err != nil {
			return sub, err
		}
		buf = append(buf, enc...)
	}
	if uint32(len(buf)) != uint32(byteLen) {
		return sub, p.errorf("sub %q: encoded %d bytes, header declared %d", name, len(buf), byteLen)
	}
	sub.Code = buf
	return sub, nil
}

// parseSubHeader parses ".sub NAME:IDX arity:A slots:S lines:L bytes:B".
// The index field is part of the format for readability but is not
// consumed: subroutines are identified by their position in the image.
func parseSubHeader(line string) (name string, arity, slots, lines, byteLen int, err error) {
	fields := strings.Fields(line)
	if len(fields) != 6 || fields[0] != ".sub" {
		return "", 0, 0, 0, 0, fmt.Errorf("expected 6 fields, got %d", len(fields))
	}
	nameIdx := strings.SplitN(fields[1], ":", 2)
	if len(nameIdx) != 2 {
		return "", 0, 0, 0, 0, fmt.Errorf("expected NAME:INDEX, got %q", fields[1])
	}
	name = nameIdx[0]

	get := func(field, key string) (int, error) {
		kv := strings.SplitN(field, ":", 2)
		if len(kv) != 2 || kv[0] != key {
			return 0, fmt.Errorf("expected %s:N, got %q", key, field)
		}
		return strconv.Atoi(kv[1])
	}
	if arity, err = get(fields[2], "arity"); err != nil {
		return "", 0, 0, 0, 0, err
	}
	if slots, err = get(fields[3], "slots"); err != nil {
		return "", 0, 0, 0, 0, err
	}
	if lines, err = get(fields[4], "lines"); err != nil {
		return "", 0, 0, 0, 0, err
	}
	if byteLen, err = get(fields[5], "bytes"); err != nil {
		return "", 0, 0, 0, 0, err
	}
	return name, arity, slots, lines, byteLen, nil
}

// parseInstrLine parses "<offset> | <mnemonic> [operand...]" and encodes
// the instruction to its fixed-width binary form.
func (p *parser) parseInstrLine(line string) ([]byte, error) {
	parts := strings.SplitN(line, "|", 2)
	if len(parts) != 2 {
		return nil, p.errorf("malformed instruction line: %q", line)
	}
	fields := strings.Fields(parts[1])
	if len(fields) == 0 {
		return nil, p.errorf("empty instruction on line: %q", line)
	}
	op, ok := bytecode.Lookup(fields[0])
	if !ok {
		return nil, p.errorf("unknown mnemonic %q", fields[0])
	}
	return encodeInstr(op, fields[1:], p)
}

func (p *parser) parseStart() error {
	if !p.nextLine() || p.line != ".start" {
		return p.errorf("expected .start section")
	}
	if !p.nextLine() || p.line != "call 0" {
		return p.errorf("expected \"call 0\" in .start section")
	}
	if !p.nextLine() || p.line != "halt" {
		return p.errorf("expected \"halt\" in .start section")
	}
	return nil
}

func encodeInstr(op bytecode.Op, operands []string, p *parser) ([]byte, error) {
	buf := make([]byte, 0, op.Size())
	buf = append(buf, byte(op))

	switch op {
	case bytecode.Push:
		if len(operands) < 1 {
			return nil, p.errorf("%s: missing tag operand", op)
		}
		tag, ok := bytecode.LookupTag(operands[0])
		if !ok {
			return nil, p.errorf("%s: unknown tag %q", op, operands[0])
		}
		buf = append(buf, byte(tag))
		var payload [8]byte
		switch tag {
		case bytecode.TagNil:
		case bytecode.TagInteger:
			v, err := strconv.ParseInt(operands[1], 10, 64)
			if err != nil {
				return nil, p.errorf("%s integer: %v", op, err)
			}
			binary.LittleEndian.PutUint64(payload[:], uint64(v))
		case bytecode.TagFloat:
			v, err := strconv.ParseFloat(operands[1], 64)
			if err != nil {
				return nil, p.errorf("%s float: %v", op, err)
			}
			binary.LittleEndian.PutUint64(payload[:], math.Float64bits(v))
		case bytecode.TagConstText, bytecode.TagFuncPtr:
			v, err := strconv.ParseUint(operands[1], 10, 32)
			if err != nil {
				return nil, p.errorf("%s %s: %v", op, tag, err)
			}
			binary.LittleEndian.PutUint32(payload[:4], uint32(v))
		default:
			return nil, p.errorf("%s: tag %s not supported by the generator", op, tag)
		}
		buf = append(buf, payload[:]...)

	case bytecode.BPush:
		if len(operands) < 1 {
			return nil, p.errorf("%s: missing bool operand", op)
		}
		v, err := strconv.ParseBool(operands[0])
		if err != nil {
			return nil, p.errorf("%s: %v", op, err)
		}
		b := byte(0)
		if v {
			b = 1
		}
		buf = append(buf, b)

	case bytecode.SPush:
		if len(operands) < 1 {
			return nil, p.errorf("%s: missing operand", op)
		}
		v, err := strconv.ParseUint(operands[0], 10, 32)
		if err != nil {
			return nil, p.errorf("%s: %v", op, err)
		}
		var payload [4]byte
		binary.LittleEndian.PutUint32(payload[:], uint32(v))
		buf = append(buf, payload[:]...)

	case bytecode.Load, bytecode.Store, bytecode.AStore, bytecode.Index, bytecode.NewArray, bytecode.Call:
		if len(operands) < 1 {
			return nil, p.errorf("%s: missing operand", op)
		}
		v, err := strconv.ParseUint(operands[0], 10, 16)
		if err != nil {
			return nil, p.errorf("%s: %v", op, err)
		}
		var payload [2]byte
		binary.LittleEndian.PutUint16(payload[:], uint16(v))
		buf = append(buf, payload[:]...)

	case bytecode.Jmp, bytecode.JmpFalse:
		if len(operands) < 1 {
			return nil, p.errorf("%s: missing target operand", op)
		}
		v, err := strconv.ParseUint(operands[0], 10, 32)
		if err != nil {
			return nil, p.errorf("%s: %v", op, err)
		}
		var payload [4]byte
		binary.LittleEndian.PutUint32(payload[:], uint32(v))
		buf = append(buf, payload[:]...)

	default:
		// no-operand opcode; nothing further to encode
	}

	if len(buf) != op.Size() {
		return nil, p.errorf("%s: encoded %d bytes, expected %d", op, len(buf), op.Size())
	}
	return buf, nil
}
