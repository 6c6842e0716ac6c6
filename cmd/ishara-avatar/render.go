package main

import (
	"math"
	"strings"

	"github.com/fatih/color"

	"github.com/MrWong99/ishara/internal/animate"
)

// Canvas size in character cells and the slice of character space it shows.
const (
	canvasW = 31
	canvasH = 13

	minX, maxX = -1.5, 1.5
	minY, maxY = -1.0, 1.8
)

var (
	leftShoulder  = animate.Vec3{-0.4, 0.8, 0}
	rightShoulder = animate.Vec3{0.4, 0.8, 0}
	headCentre    = animate.Vec3{0, 1.35, 0}
)

type cell struct {
	r    rune
	kind cellKind
}

type cellKind int

const (
	kindEmpty cellKind = iota
	kindBody
	kindArm
	kindHead
	kindHand
)

// canvas is a fixed-size character grid, row 0 at the top.
type canvas [canvasH][canvasW]cell

// toCell maps a point in character space to grid coordinates. ok is false
// when the point falls outside the canvas.
func toCell(p animate.Vec3) (col, row int, ok bool) {
	col = int(math.Round((p[0] - minX) / (maxX - minX) * (canvasW - 1)))
	row = int(math.Round((maxY - p[1]) / (maxY - minY) * (canvasH - 1)))
	return col, row, col >= 0 && col < canvasW && row >= 0 && row < canvasH
}

func (c *canvas) plot(p animate.Vec3, r rune, k cellKind) {
	col, row, ok := toCell(p)
	if !ok || c[row][col].kind > k {
		return
	}
	c[row][col] = cell{r: r, kind: k}
}

// line draws a straight segment from a to b.
func (c *canvas) line(a, b animate.Vec3, r rune, k cellKind) {
	const steps = 24
	for i := 0; i <= steps; i++ {
		c.plot(a.Lerp(b, float64(i)/steps), r, k)
	}
}

// drawFrame renders the stick figure with both hands at the frame's
// positions.
func drawFrame(f animate.Frame) *canvas {
	var c canvas
	// Torso and legs.
	c.line(animate.Vec3{0, 0.8, 0}, animate.Vec3{0, -0.2, 0}, '|', kindBody)
	c.line(animate.Vec3{0, -0.2, 0}, animate.Vec3{-0.35, -0.95, 0}, '/', kindBody)
	c.line(animate.Vec3{0, -0.2, 0}, animate.Vec3{0.35, -0.95, 0}, '\\', kindBody)
	c.line(leftShoulder, rightShoulder, '-', kindBody)
	c.plot(headCentre, 'O', kindHead)

	c.line(leftShoulder, f.LeftHand, '.', kindArm)
	c.line(rightShoulder, f.RightHand, '.', kindArm)
	c.plot(f.LeftHand, 'L', kindHand)
	c.plot(f.RightHand, 'R', kindHand)
	return &c
}

// String renders the canvas without colour.
func (c *canvas) String() string {
	var sb strings.Builder
	for _, row := range c {
		line := make([]rune, canvasW)
		for i, cl := range row {
			line[i] = ' '
			if cl.kind != kindEmpty {
				line[i] = cl.r
			}
		}
		sb.WriteString(strings.TrimRight(string(line), " "))
		sb.WriteByte('\n')
	}
	return sb.String()
}

var palette = map[cellKind]*color.Color{
	kindBody: color.New(color.FgWhite),
	kindArm:  color.New(color.FgBlue),
	kindHead: color.New(color.FgCyan, color.Bold),
	kindHand: color.New(color.FgGreen, color.Bold),
}

// Colored renders the canvas with ANSI colours. fatih/color drops them when
// stdout is not a terminal.
func (c *canvas) Colored() string {
	var sb strings.Builder
	for _, row := range c {
		last := len(row) - 1
		for last >= 0 && row[last].kind == kindEmpty {
			last--
		}
		for _, cl := range row[:last+1] {
			if cl.kind == kindEmpty {
				sb.WriteByte(' ')
				continue
			}
			sb.WriteString(palette[cl.kind].Sprint(string(cl.r)))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
