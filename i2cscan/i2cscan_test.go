// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package i2cscan

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

func TestScan(t *testing.T) {
	b := newFakeBus(0x20, 0x3C, 0x68)
	s := Scanner{SDA: b.sda(), SCL: b.scl()}
	found, err := s.Scan(context.Background(), FirstAddr, LastAddr)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]uint16{0x20, 0x3C, 0x68}, found); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	if b.starts != int(LastAddr-FirstAddr+1) || b.stops != b.starts {
		t.Fatalf("%d starts, %d stops", b.starts, b.stops)
	}
	if !b.sdaLevel || !b.sclLevel {
		t.Fatal("bus must be left idle")
	}
}

func TestScan_empty(t *testing.T) {
	b := newFakeBus()
	s := Scanner{SDA: b.sda(), SCL: b.scl()}
	found, err := s.Scan(context.Background(), FirstAddr, LastAddr)
	if err != nil {
		t.Fatal(err)
	}
	if len(found) != 0 {
		t.Fatal(found)
	}
}

func TestScan_subrange(t *testing.T) {
	b := newFakeBus(0x20, 0x3C, 0x68)
	s := Scanner{SDA: b.sda(), SCL: b.scl(), Delay: time.Nanosecond}
	found, err := s.Scan(context.Background(), 0x30, 0x40)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]uint16{0x3C}, found); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestScan_invalidRange(t *testing.T) {
	b := newFakeBus()
	s := Scanner{SDA: b.sda(), SCL: b.scl()}
	if _, err := s.Scan(context.Background(), 0x40, 0x30); err == nil {
		t.Fatal("expected error")
	}
	if _, err := s.Scan(context.Background(), 0x08, 0x80); err == nil {
		t.Fatal("expected error")
	}
}

func TestScan_canceled(t *testing.T) {
	b := newFakeBus(0x20)
	s := Scanner{SDA: b.sda(), SCL: b.scl()}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	found, err := s.Scan(ctx, FirstAddr, LastAddr)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(found) != 0 || b.starts != 0 {
		t.Fatal("nothing must be probed")
	}
}

func TestScan_pinError(t *testing.T) {
	b := newFakeBus(0x20)
	b.fail = errors.New("bus exploded")
	s := Scanner{SDA: b.sda(), SCL: b.scl()}
	if _, err := s.Scan(context.Background(), FirstAddr, LastAddr); !errors.Is(err, b.fail) {
		t.Fatalf("expected the pin error, got %v", err)
	}
}

func TestScan_log(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	b := newFakeBus(0x50)
	s := Scanner{SDA: b.sda(), SCL: b.scl(), Log: zap.New(core)}
	if _, err := s.Scan(context.Background(), 0x50, 0x51); err != nil {
		t.Fatal(err)
	}
	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if ctx := entries[0].ContextMap(); ctx["addr"] != "0x50" || ctx["ack"] != true {
		t.Fatal(ctx)
	}
	if ctx := entries[1].ContextMap(); ctx["ack"] != false {
		t.Fatal(ctx)
	}
}

//

// fakeBus decodes the lines the way a set of I²C devices would and pulls SDA
// low on the ninth clock when the address matches.
type fakeBus struct {
	present  map[uint16]bool
	fail     error
	sdaLevel gpio.Level
	sclLevel gpio.Level
	sdaInput bool
	bits     []gpio.Level
	starts   int
	stops    int
}

func newFakeBus(addrs ...uint16) *fakeBus {
	b := &fakeBus{present: map[uint16]bool{}}
	for _, a := range addrs {
		b.present[a] = true
	}
	return b
}

func (b *fakeBus) sda() *fakePin { return &fakePin{b: b, name: "SDA", isSDA: true} }
func (b *fakeBus) scl() *fakePin { return &fakePin{b: b, name: "SCL"} }

func (b *fakeBus) setSDA(l gpio.Level) {
	if b.sclLevel && b.sdaLevel != l {
		if l {
			b.stops++
		} else {
			b.starts++
			b.bits = b.bits[:0]
		}
	}
	b.sdaLevel = l
	b.sdaInput = false
}

func (b *fakeBus) setSCL(l gpio.Level) {
	if l && !b.sclLevel && !gpio.Level(b.sdaInput) {
		b.bits = append(b.bits, b.sdaLevel)
	}
	b.sclLevel = l
}

// ack is what a device drives on SDA after 8 bits.
func (b *fakeBus) ack() gpio.Level {
	if len(b.bits) != 8 {
		return gpio.High
	}
	var v uint16
	for _, bit := range b.bits {
		v <<= 1
		if bit {
			v |= 1
		}
	}
	if v&1 == 0 && b.present[v>>1] {
		return gpio.Low
	}
	return gpio.High
}

type fakePin struct {
	b     *fakeBus
	name  string
	isSDA bool
}

func (p *fakePin) String() string { return p.name }
func (p *fakePin) Halt() error { return nil }
func (p *fakePin) Name() string { return p.name }
func (p *fakePin) Number() int { return -1 }
func (p *fakePin) Function() string { return "" }
func (p *fakePin) Pull() gpio.Pull { return gpio.PullNoChange }
func (p *fakePin) DefaultPull() gpio.Pull { return gpio.PullNoChange }

func (p *fakePin) WaitForEdge(time.Duration) bool { return false }

func (p *fakePin) PWM(gpio.Duty, physic.Frequency) error {
	return errors.New("not supported")
}

func (p *fakePin) In(gpio.Pull, gpio.Edge) error {
	if p.b.fail != nil {
		return p.b.fail
	}
	if p.isSDA {
		p.b.sdaInput = true
	}
	return nil
}

func (p *fakePin) Read() gpio.Level {
	if p.isSDA {
		if gpio.Level(p.b.sdaInput) && p.b.sclLevel {
			return p.b.ack()
		}
		return p.b.sdaLevel
	}
	return p.b.sclLevel
}

func (p *fakePin) Out(l gpio.Level) error {
	if p.b.fail != nil {
		return p.b.fail
	}
	if p.isSDA {
		p.b.setSDA(l)
	} else {
		p.b.setSCL(l)
	}
	return nil
}

var _ gpio.PinIO = &fakePin{}
