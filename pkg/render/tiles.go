package render

import (
	"context"
	"image"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// DefaultTileSize is the tile edge length in pixels used when TileOptions
// leaves it zero.
const DefaultTileSize = 64

// ctxCheckInterval is how many triangle setups a tile walks between
// cancellation checks.
const ctxCheckInterval = 256

// Batch is a triangle list drawn with one shading function.
type Batch struct {
	Triangles []Triangle
	Shade     ShadeFunc
}

// TileOptions controls tile-parallel rasterization.
type TileOptions struct {
	TileSize int // tile edge in pixels; 0 means DefaultTileSize
	Workers  int // tiles rasterized at once; 0 means GOMAXPROCS
}

func (o TileOptions) withDefaults() TileOptions {
	if o.TileSize <= 0 {
		o.TileSize = DefaultTileSize
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	return o
}

// tileGrid splits a width x height surface into tiles of at most size x size.
// Tiles never overlap, so each one can write its pixels without locking.
func tileGrid(width, height, size int) []image.Rectangle {
	if width <= 0 || height <= 0 || size <= 0 {
		return nil
	}
	tiles := make([]image.Rectangle, 0, ((width+size-1)/size)*((height+size-1)/size))
	for y := 0; y < height; y += size {
		for x := 0; x < width; x += size {
			tiles = append(tiles, image.Rect(x, y, min(x+size, width), min(y+size, height)))
		}
	}
	return tiles
}

// DrawBatches rasterizes every batch in order on the calling goroutine.
// It is the reference the parallel path must match.
func (r *Rasterizer) DrawBatches(batches []Batch) {
	var c counters
	for _, b := range batches {
		for i := range b.Triangles {
			r.drawSerial(&b.Triangles[i], b.Shade, &c)
		}
	}
	r.flush(&c)
}

// shadedSetup is a prepared triangle plus the shader of its batch.
type shadedSetup struct {
	setup
	shade ShadeFunc
}

// DrawBatchesParallel rasterizes the batches over disjoint screen tiles
// concurrently.
//
// Triangle setup runs once up front. Each tile then walks all prepared
// triangles in submission order, restricted to the tile, so every pixel
// sees exactly the same sequence of depth tests as in DrawBatches and the
// resulting color and depth buffers are identical.
//
// If ctx is cancelled the frame is abandoned part way and ctx's error is
// returned; the buffers are left in an unspecified state until the next
// Clear.
func (r *Rasterizer) DrawBatchesParallel(ctx context.Context, batches []Batch, opts TileOptions) error {
	opts = opts.withDefaults()

	var c counters
	var prepared []shadedSetup
	for _, b := range batches {
		for i := range b.Triangles {
			c.Triangles++
			if s, ok := r.setup(&b.Triangles[i], &c); ok {
				prepared = append(prepared, shadedSetup{setup: s, shade: b.Shade})
			}
		}
	}
	r.flush(&c)

	tiles := tileGrid(r.Width(), r.Height(), opts.TileSize)
	if len(prepared) == 0 || len(tiles) == 0 {
		return ctx.Err()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for _, tile := range tiles {
		g.Go(func() error {
			return r.drawTile(ctx, tile, prepared)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	Logger().Debug("tiled frame",
		slog.Int("tiles", len(tiles)),
		slog.Int("triangles", len(prepared)),
		slog.Int("workers", opts.Workers))
	return nil
}

func (r *Rasterizer) drawTile(ctx context.Context, tile image.Rectangle, prepared []shadedSetup) error {
	var c counters
	defer r.flush(&c)

	for i := range prepared {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		p := &prepared[i]
		minX, maxX := max(p.minX, tile.Min.X), min(p.maxX, tile.Max.X-1)
		minY, maxY := max(p.minY, tile.Min.Y), min(p.maxY, tile.Max.Y-1)
		if minX > maxX || minY > maxY {
			continue
		}
		p.raster(r.fb, minX, minY, maxX, maxY, p.shade, &c)
	}
	return nil
}

// DrawTrianglesParallel is DrawBatchesParallel for a single batch.
func (r *Rasterizer) DrawTrianglesParallel(ctx context.Context, tris []Triangle, shade ShadeFunc, opts TileOptions) error {
	return r.DrawBatchesParallel(ctx, []Batch{{Triangles: tris, Shade: shade}}, opts)
}
