package geometry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/spectraforge/spectraforge/pkg/core"
	"github.com/spectraforge/spectraforge/pkg/material"
)

// ErrEmptyBVH is returned when constructing a BVH over zero shapes
var ErrEmptyBVH = errors.New("bvh: no shapes to build over")

const (
	// Leaf threshold: ranges of this many or fewer shapes become leaves
	bvhLeafThreshold = 4
	// Ranges larger than this build their subtrees in parallel goroutines
	bvhParallelThreshold = 2048
)

// bvhNode is one node in the flat arena. Internal nodes reference their
// children by arena index; leaves reference a contiguous range of the
// reordered primitive list. The arena layout is acyclic by construction:
// children always live at higher indices than their parent.
type bvhNode struct {
	bounds core.AABB
	left   int32 // Arena index of left child, -1 for leaves
	right  int32 // Arena index of right child, -1 for leaves
	start  int32 // First primitive index for leaves
	count  int32 // Primitive count for leaves, 0 for internal nodes
}

func (n *bvhNode) isLeaf() bool {
	return n.count > 0
}

// BVH is a bounding volume hierarchy over a fixed set of shapes. It is
// immutable after construction and safe for concurrent traversal.
type BVH struct {
	nodes  []bvhNode
	shapes []Shape // Reordered so each leaf covers a contiguous range
	ids    []int   // Original shape indices, parallel to shapes
}

// primRef pairs a shape with its original index and cached bounds during the build
type primRef struct {
	shape  Shape
	id     int
	bounds core.AABB
	center core.Vec3
}

// NewBVH builds a hierarchy over the given shapes using median splits along
// the longest axis. Large subtrees build concurrently over disjoint ranges.
func NewBVH(shapes []Shape) (*BVH, error) {
	if len(shapes) == 0 {
		return nil, ErrEmptyBVH
	}

	prims := make([]primRef, len(shapes))
	for i, shape := range shapes {
		bounds := shape.BoundingBox()
		if !bounds.IsValid() {
			return nil, fmt.Errorf("bvh: shape %d has invalid bounds [%v, %v]", i, bounds.Min, bounds.Max)
		}
		prims[i] = primRef{shape: shape, id: i, bounds: bounds, center: bounds.Center()}
	}

	nodes := buildRange(prims, 0)

	bvh := &BVH{
		nodes:  nodes,
		shapes: make([]Shape, len(prims)),
		ids:    make([]int, len(prims)),
	}
	for i, prim := range prims {
		bvh.shapes[i] = prim.shape
		bvh.ids[i] = prim.id
	}
	return bvh, nil
}

// buildRange builds a subtree over prims (a subslice whose first element sits
// at global index base) and returns its node arena with the root at index 0.
// Parallel builds work on disjoint subslices, so no locking is needed.
func buildRange(prims []primRef, base int) []bvhNode {
	bounds := prims[0].bounds
	for i := 1; i < len(prims); i++ {
		bounds = bounds.Union(prims[i].bounds)
	}

	if len(prims) <= bvhLeafThreshold {
		return []bvhNode{{
			bounds: bounds,
			left:   -1,
			right:  -1,
			start:  int32(base),
			count:  int32(len(prims)),
		}}
	}

	// Median split on the longest axis of the centroid bounds
	axis := bounds.LongestAxis()
	sort.Slice(prims, func(i, j int) bool {
		return axisComponent(prims[i].center, axis) < axisComponent(prims[j].center, axis)
	})
	mid := len(prims) / 2

	var leftNodes, rightNodes []bvhNode
	if len(prims) > bvhParallelThreshold {
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			leftNodes = buildRange(prims[:mid], base)
		}()
		go func() {
			defer wg.Done()
			rightNodes = buildRange(prims[mid:], base+mid)
		}()
		wg.Wait()
	} else {
		leftNodes = buildRange(prims[:mid], base)
		rightNodes = buildRange(prims[mid:], base+mid)
	}

	// Stitch: root, then the left subtree, then the right subtree with
	// child indices shifted past the left subtree
	nodes := make([]bvhNode, 0, 1+len(leftNodes)+len(rightNodes))
	nodes = append(nodes, bvhNode{
		bounds: bounds,
		left:   1,
		right:  int32(1 + len(leftNodes)),
	})
	nodes = appendShifted(nodes, leftNodes, 1)
	nodes = appendShifted(nodes, rightNodes, int32(1+len(leftNodes)))
	return nodes
}

// appendShifted appends a sub-arena, shifting its internal child indices by offset
func appendShifted(dst, src []bvhNode, offset int32) []bvhNode {
	for _, node := range src {
		if !node.isLeaf() {
			node.left += offset
			node.right += offset
		}
		dst = append(dst, node)
	}
	return dst
}

func axisComponent(v core.Vec3, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// Hit returns the closest intersection along the ray. Traversal is iterative
// over an explicit stack, visiting the nearer child first and pruning nodes
// whose entry distance exceeds the running closest hit.
func (bvh *BVH) Hit(ray core.Ray, tMin, tMax float64) (*material.SurfaceInteraction, bool) {
	var closest *material.SurfaceInteraction
	closestT := tMax

	var stack [64]int32
	stackSize := 0
	stack[stackSize] = 0
	stackSize++

	for stackSize > 0 {
		stackSize--
		node := &bvh.nodes[stack[stackSize]]

		entry, hit := node.bounds.EntryDistance(ray, tMin, closestT)
		if !hit || entry > closestT {
			continue
		}

		if node.isLeaf() {
			for i := node.start; i < node.start+node.count; i++ {
				if rec, ok := bvh.shapes[i].Hit(ray, tMin, closestT); ok {
					rec.PrimitiveID = bvh.ids[i]
					closest = rec
					closestT = rec.T
				}
			}
			continue
		}

		// Visit the nearer child first so its hits shrink closestT before
		// the farther child is tested
		nearChild, farChild := node.left, node.right
		nearEntry, nearHit := bvh.nodes[nearChild].bounds.EntryDistance(ray, tMin, closestT)
		farEntry, farHit := bvh.nodes[farChild].bounds.EntryDistance(ray, tMin, closestT)
		if nearHit && farHit && farEntry < nearEntry {
			nearChild, farChild = farChild, nearChild
			nearHit, farHit = farHit, nearHit
		}
		// Push far first so near pops first
		if farHit && stackSize < len(stack) {
			stack[stackSize] = farChild
			stackSize++
		}
		if nearHit && stackSize < len(stack) {
			stack[stackSize] = nearChild
			stackSize++
		}
	}

	return closest, closest != nil
}

// HitAny reports whether anything intersects the ray within (tMin, tMax).
// It exits on the first hit without finding the closest one, which makes
// shadow queries cheaper than full intersections.
func (bvh *BVH) HitAny(ray core.Ray, tMin, tMax float64) bool {
	var stack [64]int32
	stackSize := 0
	stack[stackSize] = 0
	stackSize++

	for stackSize > 0 {
		stackSize--
		node := &bvh.nodes[stack[stackSize]]

		if !node.bounds.Hit(ray, tMin, tMax) {
			continue
		}

		if node.isLeaf() {
			for i := node.start; i < node.start+node.count; i++ {
				if _, ok := bvh.shapes[i].Hit(ray, tMin, tMax); ok {
					return true
				}
			}
			continue
		}

		if stackSize+2 <= len(stack) {
			stack[stackSize] = node.left
			stackSize++
			stack[stackSize] = node.right
			stackSize++
		}
	}

	return false
}

// BoundingBox returns the bounds of the whole hierarchy
func (bvh *BVH) BoundingBox() core.AABB {
	return bvh.nodes[0].bounds
}

// Stats summarizes the tree structure, used for build diagnostics
type Stats struct {
	TotalNodes  int
	LeafNodes   int
	MaxDepth    int
	TotalShapes int
}

// Stats walks the arena and collects structural statistics
func (bvh *BVH) Stats() Stats {
	stats := Stats{TotalShapes: len(bvh.shapes)}

	type entry struct {
		index int32
		depth int
	}
	stack := []entry{{0, 0}}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		stats.TotalNodes++
		if e.depth > stats.MaxDepth {
			stats.MaxDepth = e.depth
		}

		node := &bvh.nodes[e.index]
		if node.isLeaf() {
			stats.LeafNodes++
			continue
		}
		stack = append(stack, entry{node.left, e.depth + 1}, entry{node.right, e.depth + 1})
	}

	return stats
}
