// Copyright 2022 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package orangepi

import (
	"os"
	"path/filepath"
	"testing"

	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/pin"
	"periph.io/x/conn/v3/pin/pinreg"
	"periph.io/x/sunxi/allwinner"
	"periph.io/x/sunxi/pmem"
)

func TestDTModel(t *testing.T) {
	defer func(old string) { modelPath = old }(modelPath)
	modelPath = filepath.Join(t.TempDir(), "model")
	if m := dtModel(); m != "<unknown>" {
		t.Fatal(m)
	}
	if err := os.WriteFile(modelPath, []byte("Xunlong Orange Pi Zero\x00"), 0o600); err != nil {
		t.Fatal(err)
	}
	if m := dtModel(); m != "Xunlong Orange Pi Zero" {
		t.Fatalf("%q", m)
	}
}

func TestRegisterHeaders(t *testing.T) {
	l, err := allwinner.LayoutByName("sun8i-h3")
	if err != nil {
		t.Fatal(err)
	}
	c := allwinner.New(pmem.NewView(int(l.Size()/4)), l)
	for i := 0; i < l.NumPins(); i++ {
		p, err := c.Pin(i)
		if err != nil {
			t.Fatal(err)
		}
		if err := gpioreg.Register(p); err != nil {
			t.Fatal(err)
		}
	}

	// Other boards are ignored.
	if err := registerHeaders("FriendlyARM NanoPi NEO Air"); err != nil {
		t.Fatal(err)
	}
	if _, ok := pinreg.All()["PA"]; ok {
		t.Fatal("unexpected header")
	}

	if err := registerHeaders("Xunlong Orange Pi Zero"); err != nil {
		t.Fatal(err)
	}
	defer pinreg.Unregister("PA")
	hdr := pinreg.All()["PA"]
	if len(hdr) != 13 {
		t.Fatalf("expected 13 rows, got %d", len(hdr))
	}
	if hdr[1][0].Name() != "PA12" || hdr[1][1] != pin.V5 {
		t.Fatalf("unexpected row %v", hdr[1])
	}
	if name, number := pinreg.Position(gpioreg.ByName("PG7")); name != "PA" || number != 10 {
		t.Fatalf("Position(PG7) = %s, %d", name, number)
	}
}

func TestResolve_missing(t *testing.T) {
	if _, err := resolve([][]interface{}{{"PZ99"}}); err == nil {
		t.Fatal("expected error")
	}
}
