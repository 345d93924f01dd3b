package physics

const (
	CollisionAxisTolerance = 1e-9

	DefaultBodyWidth  = 0.6
	DefaultBodyDepth  = 0.6
	DefaultBodyHeight = 1.8
)
