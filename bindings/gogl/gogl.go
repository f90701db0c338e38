//go:build gogl

// Package gogl forwards traced calls to the system OpenGL library through
// go-gl, in an OpenGL 2.1 context created with GLFW.
package gogl

import (
	"context"
	"fmt"
	"runtime"

	"github.com/go-gl/gl/v2.1/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stealthrocket/gltrace"
)

func init() {
	// GLFW and the OpenGL context must stay on the main thread.
	runtime.LockOSThread()
}

// Binding is a gltrace.Binding calling the OpenGL library of the host.
//
// The context is owned by a hidden window sized Width x Height; the zero
// value uses a 1x1 window.
type Binding struct {
	Width  int
	Height int
	Title  string

	window *glfw.Window
}

func (b *Binding) Load(ctx context.Context) error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw: %w", err)
	}
	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.ContextVersionMajor, 2)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)

	width, height := b.Width, b.Height
	if width <= 0 || height <= 0 {
		width, height = 1, 1
	}
	title := b.Title
	if title == "" {
		title = "gltrace"
	}

	window, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("glfw: %w", err)
	}
	window.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		window.Destroy()
		glfw.Terminate()
		return fmt.Errorf("gl: %w", err)
	}
	b.window = window
	return nil
}

func (b *Binding) Close(ctx context.Context) error {
	if b.window != nil {
		b.window.Destroy()
		b.window = nil
		glfw.Terminate()
	}
	return nil
}

// Invoke performs the call on the current context. Entry points passing a
// pointer whose size the signature does not describe (glCallLists,
// glTexImage2D, glGetIntegerv...) are not forwarded, the guest memory they
// reference cannot be handed to the library safely.
func (b *Binding) Invoke(ctx context.Context, call gltrace.Call) (uint64, error) {
	if b.window == nil {
		return 0, fmt.Errorf("%s: OpenGL context is not loaded", call.Name)
	}
	a := call.Args

	switch call.Name {
	case "glAlphaFunc":
		fn := a.Uint32()
		gl.AlphaFunc(fn, float32(a.Float()))
	case "glBegin":
		gl.Begin(a.Uint32())
	case "glBindTexture":
		target := a.Uint32()
		gl.BindTexture(target, a.Uint32())
	case "glCallList":
		gl.CallList(a.Uint32())
	case "glClear":
		gl.Clear(a.Uint32())
	case "glClearColor":
		red, green, blue, alpha := a.Float(), a.Float(), a.Float(), a.Float()
		gl.ClearColor(float32(red), float32(green), float32(blue), float32(alpha))
	case "glColor3fv":
		gl.Color3fv(floats(a, 3))
	case "glColor4fv":
		gl.Color4fv(floats(a, 4))
	case "glDeleteLists":
		list := a.Uint32()
		gl.DeleteLists(list, a.Int32())
	case "glDepthMask":
		gl.DepthMask(a.Uint32() != 0)
	case "glDisable":
		gl.Disable(a.Uint32())
	case "glEnable":
		gl.Enable(a.Uint32())
	case "glEnd":
		gl.End()
	case "glEndList":
		gl.EndList()
	case "glFinish":
		gl.Finish()
	case "glFogf":
		pname := a.Uint32()
		gl.Fogf(pname, float32(a.Float()))
	case "glFogfv":
		pname := a.Uint32()
		gl.Fogfv(pname, floats(a, 4))
	case "glFogi":
		pname := a.Uint32()
		gl.Fogi(pname, a.Int32())
	case "glFrontFace":
		gl.FrontFace(a.Uint32())
	case "glFrustum":
		l, r, bottom, top, near, far := a.Double(), a.Double(), a.Double(), a.Double(), a.Double(), a.Double()
		gl.Frustum(l, r, bottom, top, near, far)
	case "glGenLists":
		return uint64(gl.GenLists(a.Int32())), nil
	case "glGetError":
		return uint64(gl.GetError()), nil
	case "glLightfv":
		light, pname := a.Uint32(), a.Uint32()
		gl.Lightfv(light, pname, floats(a, 4))
	case "glLightModelfv":
		pname := a.Uint32()
		gl.LightModelfv(pname, floats(a, 4))
	case "glLightModeli":
		pname := a.Uint32()
		gl.LightModeli(pname, a.Int32())
	case "glLoadIdentity":
		gl.LoadIdentity()
	case "glLoadMatrixf":
		gl.LoadMatrixf(floats(a, 16))
	case "glMaterialf":
		face, pname := a.Uint32(), a.Uint32()
		gl.Materialf(face, pname, float32(a.Float()))
	case "glMaterialfv":
		face, pname := a.Uint32(), a.Uint32()
		gl.Materialfv(face, pname, floats(a, 4))
	case "glMatrixMode":
		gl.MatrixMode(a.Uint32())
	case "glMultMatrixf":
		gl.MultMatrixf(floats(a, 16))
	case "glNewList":
		list := a.Uint32()
		gl.NewList(list, a.Uint32())
	case "glNormal3f":
		x, y, z := a.Float(), a.Float(), a.Float()
		gl.Normal3f(float32(x), float32(y), float32(z))
	case "glNormal3fv":
		gl.Normal3fv(floats(a, 3))
	case "glOrtho":
		l, r, bottom, top, near, far := a.Double(), a.Double(), a.Double(), a.Double(), a.Double(), a.Double()
		gl.Ortho(l, r, bottom, top, near, far)
	case "glPixelStorei":
		pname := a.Uint32()
		gl.PixelStorei(pname, a.Int32())
	case "glPolygonOffset":
		factor, units := a.Float(), a.Float()
		gl.PolygonOffset(float32(factor), float32(units))
	case "glPopAttrib":
		gl.PopAttrib()
	case "glPopMatrix":
		gl.PopMatrix()
	case "glPushAttrib":
		gl.PushAttrib(a.Uint32())
	case "glPushMatrix":
		gl.PushMatrix()
	case "glRotatef":
		angle, x, y, z := a.Float(), a.Float(), a.Float(), a.Float()
		gl.Rotatef(float32(angle), float32(x), float32(y), float32(z))
	case "glScalef":
		x, y, z := a.Float(), a.Float(), a.Float()
		gl.Scalef(float32(x), float32(y), float32(z))
	case "glShadeModel":
		gl.ShadeModel(a.Uint32())
	case "glTexCoord1fv":
		gl.TexCoord1fv(floats(a, 1))
	case "glTexCoord2f":
		s, t := a.Float(), a.Float()
		gl.TexCoord2f(float32(s), float32(t))
	case "glTexCoord2fv":
		gl.TexCoord2fv(floats(a, 2))
	case "glTexEnvf":
		target, pname := a.Uint32(), a.Uint32()
		gl.TexEnvf(target, pname, float32(a.Float()))
	case "glTexEnvfv":
		target, pname := a.Uint32(), a.Uint32()
		gl.TexEnvfv(target, pname, floats(a, 4))
	case "glTexEnvi":
		target, pname := a.Uint32(), a.Uint32()
		gl.TexEnvi(target, pname, a.Int32())
	case "glTexGenfv":
		coord, pname := a.Uint32(), a.Uint32()
		gl.TexGenfv(coord, pname, floats(a, 4))
	case "glTexGeni":
		coord, pname := a.Uint32(), a.Uint32()
		gl.TexGeni(coord, pname, a.Int32())
	case "glTexParameterf":
		target, pname := a.Uint32(), a.Uint32()
		gl.TexParameterf(target, pname, float32(a.Float()))
	case "glTexParameterfv":
		target, pname := a.Uint32(), a.Uint32()
		gl.TexParameterfv(target, pname, floats(a, 4))
	case "glTexParameteri":
		target, pname := a.Uint32(), a.Uint32()
		gl.TexParameteri(target, pname, a.Int32())
	case "glTranslated":
		x, y, z := a.Double(), a.Double(), a.Double()
		gl.Translated(x, y, z)
	case "glTranslatef":
		x, y, z := a.Float(), a.Float(), a.Float()
		gl.Translatef(float32(x), float32(y), float32(z))
	case "glVertex3f":
		x, y, z := a.Float(), a.Float(), a.Float()
		gl.Vertex3f(float32(x), float32(y), float32(z))
	case "glVertex3fv":
		gl.Vertex3fv(floats(a, 3))
	case "glViewport":
		x, y, w, h := a.Int32(), a.Int32(), a.Int32(), a.Int32()
		gl.Viewport(x, y, w, h)
	}
	return 0, nil
}

func floats(a gltrace.Args, n int) *float32 {
	v := a.Floats(n)
	return &v[0]
}

var _ gltrace.Binding = (*Binding)(nil)
