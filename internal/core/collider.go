package core

// ShapeKind distinguishes the two supported local shapes.
type ShapeKind int

const (
	ShapeRect ShapeKind = iota
	ShapeCircle
)

// Shape is one named piece of a collider: a local offset from the owner's
// position, plus either rectangle or circle extents.
type Shape struct {
	Name      string
	Offset    Vec2
	Kind      ShapeKind
	Size      Vec2    // full width/height, for ShapeRect
	Radius    float64 // for ShapeCircle
	IsTrigger bool
}

// Bounds returns the world-space AABB of this shape given the owner's
// world position. Circles are bounded by their enclosing square — the
// spec narrows everything to AABB tests, so a circle's bounding box is
// the only representation the collision engine needs.
func (s Shape) Bounds(ownerPos Vec2) AABB {
	center := ownerPos.Add(s.Offset)
	if s.Kind == ShapeCircle {
		d := s.Radius * 2
		return NewAABB(center, Vec2{d, d})
	}
	return NewAABB(center, s.Size)
}

// Collider is the physical footprint of one entity. Either a single
// legacy rectangle (no Shapes) or a list of named sub-shapes is used —
// never both. Exactly one Collider exists per entity handle in the
// engine (invariant, §3).
type Collider struct {
	Owner   EntityHandle
	Shapes  []Shape
	Layer   uint32
	Dynamic bool

	// legacySize backs the single-rectangle path when Shapes is
	// empty: the collider's world bounds are owner.position ± extents.
	legacySize Vec2
}

// Bounds returns the union AABB of all of this collider's shapes at the
// given owner world position. With no named shapes, falls back to the
// legacy single rectangle.
func (c *Collider) Bounds(ownerPos Vec2) AABB {
	if len(c.Shapes) == 0 {
		return NewAABB(ownerPos, c.legacySize)
	}
	b := c.Shapes[0].Bounds(ownerPos)
	for _, s := range c.Shapes[1:] {
		sb := s.Bounds(ownerPos)
		b.Min.X = minF(b.Min.X, sb.Min.X)
		b.Min.Y = minF(b.Min.Y, sb.Min.Y)
		b.Max.X = maxF(b.Max.X, sb.Max.X)
		b.Max.Y = maxF(b.Max.Y, sb.Max.Y)
	}
	return b
}

// AnyTrigger reports whether any shape of the collider is marked trigger.
// A legacy single-rectangle collider is never a trigger.
func (c *Collider) AnyTrigger() bool {
	for _, s := range c.Shapes {
		if s.IsTrigger {
			return true
		}
	}
	return false
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// LayerMatrix is a symmetric layer×layer collision table. A pair not
// explicitly overridden defaults to true (collide), except Item×Item
// which defaults to false.
type LayerMatrix struct {
	overrides map[[2]uint32]bool
}

// NewLayerMatrix returns an empty matrix using the default rules.
func NewLayerMatrix() *LayerMatrix {
	return &LayerMatrix{overrides: make(map[[2]uint32]bool)}
}

func layerKey(a, b uint32) [2]uint32 {
	if a > b {
		a, b = b, a
	}
	return [2]uint32{a, b}
}

// Set writes the collision rule for the unordered pair (a,b) symmetrically.
func (m *LayerMatrix) Set(a, b uint32, collides bool) {
	m.overrides[layerKey(a, b)] = collides
}

// Get reports whether layer a collides with layer b. Unset pairs default
// to true, except when both layers are the reserved Item layer (LayerItem),
// which defaults to false.
func (m *LayerMatrix) Get(a, b uint32) bool {
	if v, ok := m.overrides[layerKey(a, b)]; ok {
		return v
	}
	if a == LayerItem && b == LayerItem {
		return false
	}
	return true
}

// Reserved layer values. Hosts may define additional layers above these;
// only LayerItem carries spec-mandated default behaviour (§3).
const (
	LayerDefault uint32 = 0
	LayerPlayer  uint32 = 1
	LayerEnemy   uint32 = 2
	LayerWall    uint32 = 3
	LayerItem    uint32 = 4
)
