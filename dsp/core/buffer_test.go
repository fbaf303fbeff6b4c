package core

import "testing"

func TestNewChannels(t *testing.T) {
	planar := NewChannels(3, 4)
	if len(planar) != 3 {
		t.Fatalf("got %d channels, want 3", len(planar))
	}
	for ch, buf := range planar {
		if len(buf) != 4 || cap(buf) != 4 {
			t.Fatalf("channel %d len/cap = %d/%d, want 4/4", ch, len(buf), cap(buf))
		}
	}

	planar[0] = append(planar[0], 9)
	if planar[1][0] != 0 {
		t.Fatalf("append on channel 0 reached channel 1: %v", planar[1])
	}

	if NewChannels(0, 4) != nil || NewChannels(2, -1) != nil {
		t.Fatal("invalid shapes must give nil")
	}
}

func TestZeroChannels(t *testing.T) {
	planar := NewChannels(2, 3)
	planar[0][1] = 1
	planar[1][2] = -1

	ZeroChannels(planar)
	for ch, buf := range planar {
		for i, v := range buf {
			if v != 0 {
				t.Fatalf("[%d][%d] = %v after ZeroChannels", ch, i, v)
			}
		}
	}

	buf := []float64{1, 2}
	Zero(buf)
	if buf[0] != 0 || buf[1] != 0 {
		t.Fatalf("Zero left %v", buf)
	}
}
