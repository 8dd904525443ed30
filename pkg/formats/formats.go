// Package formats provides parsers for 3D mesh file formats.
package formats
