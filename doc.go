// Package gltrace decodes OpenGL calls into a textual trace.
//
// Every call an application makes is presented to an Interceptor before it
// reaches the OpenGL implementation. Calls to the entry points of interest
// are written as C statements with symbolic enumerants:
//
//	glBegin(GL_TRIANGLES);
//	glVertex3f(0.000000f, 1.000000f, 0.000000f);
//	glEnd();
//
// Other known entry points are accepted without output, and calls to
// entry points the catalog does not know terminate the process.
package gltrace
