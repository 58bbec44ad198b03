package geometry

import (
	"fmt"

	"github.com/spectraforge/spectraforge/pkg/core"
	"github.com/spectraforge/spectraforge/pkg/material"
)

// TriangleMesh is an indexed triangle mesh sharing one material. Vertices
// are referenced by index triples; normals and UVs are optional parallel
// arrays to the vertex list.
type TriangleMesh struct {
	Vertices []core.Vec3
	Indices  []int // Length must be a multiple of 3
	Normals  []core.Vec3
	UVs      []core.Vec2
	Material material.Material

	triangles []*Triangle
	bounds    core.AABB
}

// NewTriangleMesh builds a mesh from vertex and index data. It returns an
// error when the index list is malformed or references missing vertices.
func NewTriangleMesh(vertices []core.Vec3, indices []int, mat material.Material) (*TriangleMesh, error) {
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("index count %d is not a multiple of 3", len(indices))
	}
	for _, idx := range indices {
		if idx < 0 || idx >= len(vertices) {
			return nil, fmt.Errorf("index %d out of range for %d vertices", idx, len(vertices))
		}
	}

	mesh := &TriangleMesh{
		Vertices: vertices,
		Indices:  indices,
		Material: mat,
	}
	mesh.buildTriangles()
	return mesh, nil
}

// SetNormals assigns per-vertex normals (parallel to Vertices) and rebuilds
// the triangles with smooth shading
func (m *TriangleMesh) SetNormals(normals []core.Vec3) error {
	if len(normals) != len(m.Vertices) {
		return fmt.Errorf("normal count %d does not match vertex count %d", len(normals), len(m.Vertices))
	}
	m.Normals = normals
	m.buildTriangles()
	return nil
}

// SetUVs assigns per-vertex texture coordinates (parallel to Vertices)
func (m *TriangleMesh) SetUVs(uvs []core.Vec2) error {
	if len(uvs) != len(m.Vertices) {
		return fmt.Errorf("UV count %d does not match vertex count %d", len(uvs), len(m.Vertices))
	}
	m.UVs = uvs
	m.buildTriangles()
	return nil
}

func (m *TriangleMesh) buildTriangles() {
	count := len(m.Indices) / 3
	m.triangles = make([]*Triangle, 0, count)

	for i := 0; i < count; i++ {
		i0, i1, i2 := m.Indices[3*i], m.Indices[3*i+1], m.Indices[3*i+2]
		v0, v1, v2 := m.Vertices[i0], m.Vertices[i1], m.Vertices[i2]

		var tri *Triangle
		if m.Normals != nil {
			tri = NewSmoothTriangle(v0, v1, v2, m.Normals[i0], m.Normals[i1], m.Normals[i2], m.Material)
		} else {
			tri = NewTriangle(v0, v1, v2, m.Material)
		}
		if m.UVs != nil {
			tri.SetUVs(m.UVs[i0], m.UVs[i1], m.UVs[i2])
		}
		m.triangles = append(m.triangles, tri)
	}

	if len(m.triangles) > 0 {
		m.bounds = m.triangles[0].BoundingBox()
		for _, tri := range m.triangles[1:] {
			m.bounds = m.bounds.Union(tri.BoundingBox())
		}
	}
}

// TriangleCount returns the number of triangles in the mesh
func (m *TriangleMesh) TriangleCount() int {
	return len(m.triangles)
}

// Triangles returns the mesh faces as individual shapes, so callers can feed
// them to the BVH instead of treating the mesh as one primitive
func (m *TriangleMesh) Triangles() []Shape {
	shapes := make([]Shape, len(m.triangles))
	for i, tri := range m.triangles {
		shapes[i] = tri
	}
	return shapes
}

// Hit tests the ray against every face and returns the closest intersection.
// Large meshes should be flattened into a BVH via Triangles() instead.
func (m *TriangleMesh) Hit(ray core.Ray, tMin, tMax float64) (*material.SurfaceInteraction, bool) {
	if !m.bounds.Hit(ray, tMin, tMax) {
		return nil, false
	}

	var closest *material.SurfaceInteraction
	closestT := tMax
	for _, tri := range m.triangles {
		if hit, ok := tri.Hit(ray, tMin, closestT); ok {
			closest = hit
			closestT = hit.T
		}
	}
	return closest, closest != nil
}

// BoundingBox returns the bounds of the whole mesh
func (m *TriangleMesh) BoundingBox() core.AABB {
	return m.bounds
}
