package model

// mustMesh builds one of the fixed meshes below, whose data is known to be valid.
func mustMesh(name string, positions []float32, options ...MeshBuilderOption) Mesh {
	m, err := NewMesh(name, positions, options...)
	if err != nil {
		panic(err)
	}
	return m
}

// Triangle returns a single counter-clockwise triangle in the XY plane, centered on the origin.
func Triangle() Mesh {
	return mustMesh("triangle", []float32{
		0, 0.5, 0,
		-0.5, -0.5, 0,
		0.5, -0.5, 0,
	})
}

// Quad returns a unit square in the XY plane, centered on the origin, as two triangles.
func Quad() Mesh {
	return mustMesh("quad", []float32{
		-0.5, -0.5, 0,
		0.5, -0.5, 0,
		0.5, 0.5, 0,

		-0.5, -0.5, 0,
		0.5, 0.5, 0,
		-0.5, 0.5, 0,
	})
}

// Cube returns a unit cube centered on the origin as twelve counter-clockwise triangles.
func Cube() Mesh {
	// Corners of the cube, indexed by bit pattern zyx.
	var c [8][3]float32
	for i := range c {
		c[i] = [3]float32{float32(i&1) - 0.5, float32(i>>1&1) - 0.5, float32(i>>2&1) - 0.5}
	}
	faces := [6][4]int{
		{4, 5, 7, 6}, // +z
		{1, 0, 2, 3}, // -z
		{5, 1, 3, 7}, // +x
		{0, 4, 6, 2}, // -x
		{6, 7, 3, 2}, // +y
		{0, 1, 5, 4}, // -y
	}
	positions := make([]float32, 0, len(faces)*6*PositionSize)
	for _, f := range faces {
		for _, corner := range [6]int{f[0], f[1], f[2], f[0], f[2], f[3]} {
			positions = append(positions, c[corner][0], c[corner][1], c[corner][2])
		}
	}
	return mustMesh("cube", positions)
}
