package cif

import "github.com/jbcif/cif/value"

// Directive is returned by every Visitor handler to steer the walk
// (spec §4.2).
type Directive int

const (
	Continue Directive = iota
	SkipCurrent
	SkipSiblings
	End
)

// Visitor supplies optional handlers for each node kind encountered by
// Walk. A nil handler is treated as returning Continue. Any handler may
// return a non-nil error, which aborts the walk immediately (spec §7:
// "the walk protocol treats handler-returned error codes as fatal").
type Visitor struct {
	CIFStart    func(*CIF) (Directive, error)
	CIFEnd      func(*CIF) (Directive, error)
	BlockStart  func(*Block) (Directive, error)
	BlockEnd    func(*Block) (Directive, error)
	FrameStart  func(*Frame) (Directive, error)
	FrameEnd    func(*Frame) (Directive, error)
	LoopStart   func(*Loop) (Directive, error)
	LoopEnd     func(*Loop) (Directive, error)
	PacketStart func(*Packet) (Directive, error)
	PacketEnd   func(*Packet) (Directive, error)
	Item        func(name string, v *value.Value) (Directive, error)
}

// Walk traverses d in document order: blocks, then each block's loops,
// packets, and items, then its child frames recursively.
func Walk(d *CIF, v Visitor) error {
	if d := callHook(v.CIFStart, d); d.stop {
		return d.err
	}
	for _, b := range d.Blocks() {
		dir, err := walkContainer(v, b, func() (Directive, error) {
			if v.BlockStart == nil {
				return Continue, nil
			}
			return v.BlockStart(b)
		}, func() (Directive, error) {
			if v.BlockEnd == nil {
				return Continue, nil
			}
			return v.BlockEnd(b)
		})
		if err != nil {
			return err
		}
		if dir == End {
			break
		}
	}
	if d := callHook(v.CIFEnd, d); d.stop {
		return d.err
	}
	return nil
}

// walkContainer walks one container's loops and frames, applying start/end
// hooks supplied as thunks since Go generics over Block/Frame would add
// more machinery than this small traversal needs.
func walkContainer(v Visitor, c Container, start, end func() (Directive, error)) (Directive, error) {
	dir, err := start()
	if err != nil {
		return End, err
	}
	switch dir {
	case End:
		return End, nil
	case SkipCurrent:
		return Continue, nil
	case SkipSiblings:
		if _, err := end(); err != nil {
			return End, err
		}
		return End, nil
	}

	for _, l := range c.Loops() {
		ldir, err := walkLoop(v, l)
		if err != nil {
			return End, err
		}
		if ldir == End {
			return End, nil
		}
		if ldir == SkipSiblings {
			break
		}
	}

	if frameContainer, ok := c.(interface{ Frames() []*Frame }); ok {
		for _, f := range frameContainer.Frames() {
			fdir, err := walkContainer(v, f, func() (Directive, error) {
				if v.FrameStart == nil {
					return Continue, nil
				}
				return v.FrameStart(f)
			}, func() (Directive, error) {
				if v.FrameEnd == nil {
					return Continue, nil
				}
				return v.FrameEnd(f)
			})
			if err != nil {
				return End, err
			}
			if fdir == End {
				return End, nil
			}
		}
	}

	edir, err := end()
	if err != nil {
		return End, err
	}
	if edir == End {
		return End, nil
	}
	return Continue, nil
}

func walkLoop(v Visitor, l *Loop) (Directive, error) {
	dir, err := callHookDirective(v.LoopStart, l)
	if err != nil {
		return End, err
	}
	if dir == End {
		return End, nil
	}
	if dir == SkipCurrent {
		return Continue, nil
	}

	it := l.Packets()
	defer it.Close()
packets:
	for {
		p, err := it.Next()
		if err != nil {
			return End, err
		}
		if p == nil {
			break
		}
		pdir, err := walkPacket(v, p)
		if err != nil {
			return End, err
		}
		switch pdir {
		case End:
			return End, nil
		case SkipSiblings:
			break packets
		}
	}

	if dir == SkipSiblings {
		if v.LoopEnd != nil {
			if _, err := v.LoopEnd(l); err != nil {
				return End, err
			}
		}
		return SkipSiblings, nil
	}
	if v.LoopEnd != nil {
		edir, err := v.LoopEnd(l)
		if err != nil {
			return End, err
		}
		if edir == End {
			return End, nil
		}
	}
	return Continue, nil
}

func walkPacket(v Visitor, p *Packet) (Directive, error) {
	dir, err := callHookDirective(v.PacketStart, p)
	if err != nil {
		return End, err
	}
	if dir == End {
		return End, nil
	}
	if dir == SkipCurrent {
		return Continue, nil
	}

	names := p.Keys()
	for i, name := range names {
		if v.Item == nil {
			continue
		}
		val, _ := p.At(i)
		idir, err := v.Item(name, val)
		if err != nil {
			return End, err
		}
		if idir == End {
			return End, nil
		}
		if idir == SkipSiblings {
			break
		}
	}

	if v.PacketEnd != nil {
		edir, err := v.PacketEnd(p)
		if err != nil {
			return End, err
		}
		if edir == End {
			return End, nil
		}
	}
	if dir == SkipSiblings {
		return SkipSiblings, nil
	}
	return Continue, nil
}

type hookResult struct {
	stop bool
	err  error
}

func callHook[T any](fn func(T) (Directive, error), arg T) hookResult {
	if fn == nil {
		return hookResult{}
	}
	dir, err := fn(arg)
	if err != nil {
		return hookResult{stop: true, err: err}
	}
	if dir == End {
		return hookResult{stop: true}
	}
	return hookResult{}
}

func callHookDirective[T any](fn func(T) (Directive, error), arg T) (Directive, error) {
	if fn == nil {
		return Continue, nil
	}
	return fn(arg)
}
