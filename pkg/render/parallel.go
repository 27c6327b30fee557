package render

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/taigrr/raster/pkg/models"
)

// shadeChunk is how many triangles one vertex-stage task handles.
const shadeChunk = 256

// DrawMeshParallel draws mesh like DrawMesh, splitting the work over
// workers goroutines (GOMAXPROCS when workers <= 0). The framebuffer is
// cut into horizontal bands, each owned by one goroutine that walks every
// triangle in mesh order, so the color buffer, depth buffer and Stats end
// up exactly as DrawMesh would leave them.
//
// The shader is called concurrently. Cancelling ctx stops the draw early
// and returns its error; the buffers are then partially drawn.
func DrawMeshParallel[V models.Vertex[V], U any, O models.Vertex[O]](ctx context.Context, r *Renderer, mesh *models.Mesh[V], s Shader[V, U, O], u *U, workers int) error {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	n := mesh.TriangleCount()
	tris := make([]screenTri[O], n)
	valid := make([]bool, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for start := 0; start < n; start += shadeChunk {
		end := min(start+shadeChunk, n)
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				a, b, c := mesh.Corners(i)
				tris[i], valid[i] = shadeVertices(s, u, a, b, c)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	bands := min(workers, r.color.height)
	if bands < 1 {
		r.stats.Triangles += n
		return nil
	}
	stats := make([]Stats, bands)
	g, gctx = errgroup.WithContext(ctx)
	for band := range bands {
		y0 := band * r.color.height / bands
		y1 := (band+1)*r.color.height/bands - 1
		g.Go(func() error {
			st := &stats[band]
			for i := range tris {
				if !valid[i] || tris[i].maxY < y0 || tris[i].minY > y1 {
					continue
				}
				if err := gctx.Err(); err != nil {
					return err
				}
				rasterize(r, s, u, &tris[i], y0, y1, st)
			}
			return nil
		})
	}
	err := g.Wait()

	r.stats.Triangles += n
	for _, st := range stats {
		r.stats.add(st)
	}
	return err
}
