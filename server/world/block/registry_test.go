package block

import (
	"errors"
	"testing"
)

func TestAbsorptionOpaqueAlwaysFifteen(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(Definition{ID: 1, Absorption: 3}) // non-transparent, low declared absorption

	if got := r.Absorption(1); got != 15 {
		t.Fatalf("Absorption(opaque) = %d, want 15", got)
	}
}

func TestAbsorptionTransparentFloors(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(Definition{ID: 2, Transparent: true, Absorption: TransparentAbsorption(0.2)})

	if got := r.Absorption(2); got != 3 {
		t.Fatalf("Absorption(leaves-like) = %d, want 3", got)
	}
}

func TestLookupUnknownBlock(t *testing.T) {
	r := NewRegistry()
	_, err := r.Lookup(999)
	if !errors.Is(err, ErrUnknownBlock) {
		t.Fatalf("Lookup unknown id: got %v, want ErrUnknownBlock", err)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(Definition{ID: 1})
	if err := r.Register(Definition{ID: 1}); !errors.Is(err, ErrDuplicateBlock) {
		t.Fatalf("Register duplicate: got %v, want ErrDuplicateBlock", err)
	}
}

func TestFaceTextureResolution(t *testing.T) {
	r := NewDefaultRegistry()

	top, err := r.FaceTexture(Grass, FacePosY)
	if err != nil || top != "grass_top" {
		t.Fatalf("Grass top texture = %q, %v", top, err)
	}
	side, _ := r.FaceTexture(Grass, FaceNegZ)
	if side != "grass_side" {
		t.Fatalf("Grass side texture = %q, want grass_side", side)
	}
	single, _ := r.FaceTexture(Stone, FacePosX)
	if single != "stone" {
		t.Fatalf("Stone texture = %q, want stone", single)
	}
}

func TestByCategory(t *testing.T) {
	r := NewDefaultRegistry()
	solids := r.ByCategory("solid")
	if len(solids) == 0 {
		t.Fatal("expected at least one solid block")
	}
}
