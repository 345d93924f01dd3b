package hud

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type Building struct {
	Name        string
	Information string
	Email       string
	Location    mgl64.Vec3
}

// InfoText is the panel body for b.
func (b *Building) InfoText() string {
	return fmt.Sprintf("Building Name: %s\n\nInformation: %s\n\nEmail: %s", b.Name, b.Information, b.Email)
}

type Directory struct {
	buildings []*Building
	byName    map[string]*Building
}

func NewDirectory(buildings []Building) *Directory {
	d := &Directory{byName: make(map[string]*Building, len(buildings))}
	for i := range buildings {
		b := buildings[i]
		if _, dup := d.byName[b.Name]; dup {
			continue
		}
		d.buildings = append(d.buildings, &b)
		d.byName[b.Name] = &b
	}
	return d
}

func (d *Directory) Lookup(name string) (*Building, bool) {
	b, ok := d.byName[name]
	return b, ok
}

func (d *Directory) All() []*Building {
	return append([]*Building(nil), d.buildings...)
}

// At returns the building nearest to p on the XZ plane within radius.
func (d *Directory) At(p mgl64.Vec3, radius float64) (*Building, bool) {
	var best *Building
	bestDist := math.Inf(1)
	for _, b := range d.buildings {
		dist := math.Hypot(b.Location.X()-p.X(), b.Location.Z()-p.Z())
		if dist <= radius && dist < bestDist {
			best, bestDist = b, dist
		}
	}
	return best, best != nil
}
