// Package physics provides the dynamical system models rendered by chaosplot.
//
// Each model implements the [dynamo.System] interface:
//
//   - [AC7]: chaotic autonomous complex system 7, state [v, w, x, y]
//   - [RabbitFoxes]: restricted three-body pursuit system, one rabbit chased
//     by two foxes, state [x1, y1, x2, y2, x3, y3, u1, v1, u2, v2, u3, v3]
//
// The force laws are stylized and used as given. Neither model guards
// against coincident bodies; non-finite derivatives propagate to the caller.
package physics
