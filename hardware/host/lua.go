package host

import (
	"context"
	"fmt"
	"strings"

	"github.com/jetsetilly/test9918/logger"
	lua "github.com/yuin/gopher-lua"
)

// Script is a Lua environment with the vdp module loaded
type Script struct {
	h *Host
	L *lua.LState

	// output of the log() function is also written here if it is not nil
	Echo func(string)
}

// NewScript creates a new Lua environment for the host
func (h *Host) NewScript() *Script {
	s := &Script{
		h: h,
		L: lua.NewState(),
	}
	s.L.SetGlobal("vdp", s.module())
	return s
}

// Close the Lua environment
func (s *Script) Close() {
	s.L.Close()
}

// RunFile runs the Lua file. The script is stopped if the context is cancelled
func (s *Script) RunFile(ctx context.Context, filename string) error {
	s.L.SetContext(ctx)
	if err := s.L.DoFile(filename); err != nil {
		return fmt.Errorf("%w: %w", ScriptError, err)
	}
	return nil
}

// RunString runs the Lua source
func (s *Script) RunString(ctx context.Context, src string) error {
	s.L.SetContext(ctx)
	if err := s.L.DoString(src); err != nil {
		return fmt.Errorf("%w: %w", ScriptError, err)
	}
	return nil
}

func (s *Script) module() *lua.LTable {
	mod := s.L.NewTable()
	for name, f := range map[string]lua.LGFunction{
		"write_addr":     s.writeAddr,
		"write_data":     s.writeData,
		"read_status":    s.readStatus,
		"read_data":      s.readData,
		"set_register":   s.setRegister,
		"set_address":    s.setAddress,
		"write":          s.write,
		"read":           s.read,
		"interrupt":      s.interrupt,
		"unlock":         s.unlock,
		"wait_frames":    s.waitFrames,
		"wait_lines":     s.waitLines,
		"log":            s.log,
		"flash_firmware": s.flashFirmware,
		"store":          s.store,
		"load":           s.load,
	} {
		s.L.SetField(mod, name, s.L.NewFunction(f))
	}
	return mod
}

func checkByte(L *lua.LState, n int) uint8 {
	v := L.CheckInt(n)
	if v < 0 || v > 0xff {
		L.ArgError(n, "value must be between 0 and 255")
	}
	return uint8(v)
}

// bytes from a table of numbers or from a string
func checkBytes(L *lua.LState, n int) []uint8 {
	switch v := L.Get(n).(type) {
	case lua.LString:
		return []uint8(string(v))
	case *lua.LTable:
		d := make([]uint8, 0, v.Len())
		for i := 1; i <= v.Len(); i++ {
			b, ok := v.RawGetInt(i).(lua.LNumber)
			if !ok || b < 0 || b > 0xff {
				L.ArgError(n, fmt.Sprintf("entry %d is not a byte", i))
			}
			d = append(d, uint8(b))
		}
		return d
	}
	L.TypeError(n, lua.LTTable)
	return nil
}

func toTable(L *lua.LState, d []uint8) *lua.LTable {
	t := L.CreateTable(len(d), 0)
	for _, v := range d {
		t.Append(lua.LNumber(v))
	}
	return t
}

func (s *Script) writeAddr(L *lua.LState) int {
	s.h.bus.WriteAddress(checkByte(L, 1))
	return 0
}

func (s *Script) writeData(L *lua.LState) int {
	s.h.bus.WriteData(checkByte(L, 1))
	return 0
}

func (s *Script) readStatus(L *lua.LState) int {
	L.Push(lua.LNumber(s.h.bus.ReadStatus()))
	return 1
}

func (s *Script) readData(L *lua.LState) int {
	L.Push(lua.LNumber(s.h.bus.ReadData()))
	return 1
}

func (s *Script) setRegister(L *lua.LState) int {
	reg := L.CheckInt(1)
	if reg < 0 || reg > 63 {
		L.ArgError(1, "register must be between 0 and 63")
	}
	s.h.bus.SetRegister(uint8(reg), checkByte(L, 2))
	return 0
}

func checkAddress(L *lua.LState, n int) uint16 {
	a := L.CheckInt(n)
	if a < 0 || a > 0x3fff {
		L.ArgError(n, "address must be between 0 and 0x3fff")
	}
	return uint16(a)
}

func (s *Script) setAddress(L *lua.LState) int {
	s.h.bus.SetAddress(checkAddress(L, 1), L.OptBool(2, false))
	return 0
}

func (s *Script) write(L *lua.LState) int {
	s.h.bus.Write(checkAddress(L, 1), checkBytes(L, 2))
	return 0
}

func (s *Script) read(L *lua.LState) int {
	L.Push(toTable(L, s.h.bus.Read(checkAddress(L, 1), L.CheckInt(2))))
	return 1
}

func (s *Script) interrupt(L *lua.LState) int {
	L.Push(lua.LBool(s.h.bus.Interrupt()))
	return 1
}

func (s *Script) unlock(L *lua.LState) int {
	s.h.bus.Unlock()
	return 0
}

func (s *Script) waitFrames(L *lua.LState) int {
	s.h.wait.WaitFrames(L.OptInt(1, 1))
	return 0
}

func (s *Script) waitLines(L *lua.LState) int {
	s.h.wait.WaitLines(L.OptInt(1, 1))
	return 0
}

func (s *Script) log(L *lua.LState) int {
	var b strings.Builder
	for i := 1; i <= L.GetTop(); i++ {
		if i > 1 {
			b.WriteString(" ")
		}
		b.WriteString(L.ToStringMeta(L.Get(i)).String())
	}
	logger.Log(s.h.ctx, "host", b.String())
	if s.Echo != nil {
		s.Echo(b.String())
	}
	return 0
}

func (s *Script) flashFirmware(L *lua.LState) int {
	if err := s.h.FlashFirmware(L.CheckString(1)); err != nil {
		L.RaiseError("%v", err)
	}
	return 0
}

func (s *Script) store(L *lua.LState) int {
	idx, err := s.h.Store(GUID(L.CheckString(1)), L.OptString(2, ""), checkBytes(L, 3))
	if err != nil {
		L.RaiseError("%v", err)
	}
	L.Push(lua.LNumber(idx))
	return 1
}

func (s *Script) load(L *lua.LState) int {
	blk, err := s.h.Load(GUID(L.CheckString(1)))
	if err != nil {
		L.RaiseError("%v", err)
	}
	t := L.NewTable()
	L.SetField(t, "index", lua.LNumber(blk.Hint()))
	L.SetField(t, "name", lua.LString(blk.Name()))
	L.SetField(t, "data", toTable(L, blk.Data()))
	L.Push(t)
	return 1
}
