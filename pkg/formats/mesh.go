// Package formats provides parsers for mesh files consumed by the shadow volume tools.
// Mesh format: a stream of tagged chunks describing vertex buffers, index buffers
// and primitive groups.
package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// Mesh format errors.
var (
	ErrTruncatedMeshData  = errors.New("truncated mesh data")
	ErrUnknownMeshChunk   = errors.New("unknown mesh chunk")
	ErrMeshMissingIndices = errors.New("mesh group has no index buffer")
	ErrMeshStringTooLong  = errors.New("mesh string exceeds 65535 bytes")
)

// Chunk tags, stored as little-endian uint32 (four characters).
const (
	ChunkVertexBuffer uint32 = 'V' | 'B'<<8 | ' '<<16
	ChunkIndexBuffer  uint32 = 'I' | 'B'<<8 | ' '<<16
	ChunkPrimitive    uint32 = 'P' | 'R'<<8 | 'I'<<16
)

// MeshSphere is a bounding sphere.
type MeshSphere struct {
	Center [3]float32
	Radius float32
}

// MeshAABB is an axis-aligned bounding box.
type MeshAABB struct {
	Min [3]float32
	Max [3]float32
}

// MeshOBB is an oriented bounding box stored as a 4x4 matrix.
type MeshOBB struct {
	Matrix [16]float32
}

// MeshPrimitive describes a named index/vertex range inside a group.
type MeshPrimitive struct {
	Name        string
	StartIndex  uint32
	NumIndices  uint32
	StartVertex uint32
	NumVertices uint32
	Sphere      MeshSphere
	AABB        MeshAABB
	OBB         MeshOBB
}

// MeshGroup is one vertex buffer plus its index buffer and primitives.
type MeshGroup struct {
	Sphere      MeshSphere
	AABB        MeshAABB
	OBB         MeshOBB
	Stride      uint16
	NumVertices uint16
	Vertices    []byte // NumVertices * Stride bytes, position (3 x float32) at offset 0
	Indices     []uint16
	Material    string
	Primitives  []MeshPrimitive
}

// MeshFile is a parsed mesh file.
type MeshFile struct {
	Groups []MeshGroup
}

// TriangleCount returns the number of triangles across all groups.
func (m *MeshFile) TriangleCount() int {
	n := 0
	for i := range m.Groups {
		n += len(m.Groups[i].Indices) / 3
	}
	return n
}

// LoadMesh reads and parses a mesh file from disk.
func LoadMesh(path string) (*MeshFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading mesh file: %w", err)
	}
	return ParseMesh(data)
}

// ParseMesh parses a mesh file from raw bytes.
// A group is committed when its PRI chunk is read.
func ParseMesh(data []byte) (*MeshFile, error) {
	r := bytes.NewReader(data)
	mesh := &MeshFile{}

	var group MeshGroup
	for {
		var chunk uint32
		if err := binary.Read(r, binary.LittleEndian, &chunk); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, ErrTruncatedMeshData
		}

		switch chunk {
		case ChunkVertexBuffer:
			if err := readVertexBuffer(r, &group); err != nil {
				return nil, err
			}
		case ChunkIndexBuffer:
			if err := readIndexBuffer(r, &group); err != nil {
				return nil, err
			}
		case ChunkPrimitive:
			if err := readPrimitives(r, &group); err != nil {
				return nil, err
			}
			if len(group.Indices) == 0 {
				return nil, fmt.Errorf("group %d: %w", len(mesh.Groups), ErrMeshMissingIndices)
			}
			mesh.Groups = append(mesh.Groups, group)
			group = MeshGroup{}
		default:
			return nil, fmt.Errorf("%w: %08x at offset %d", ErrUnknownMeshChunk, chunk, r.Size()-int64(r.Len())-4)
		}
	}

	return mesh, nil
}

func readVertexBuffer(r *bytes.Reader, g *MeshGroup) error {
	if err := readBounds(r, &g.Sphere, &g.AABB, &g.OBB); err != nil {
		return err
	}
	if err := binary.Read(r, binary.LittleEndian, &g.Stride); err != nil {
		return ErrTruncatedMeshData
	}
	if err := binary.Read(r, binary.LittleEndian, &g.NumVertices); err != nil {
		return ErrTruncatedMeshData
	}

	size := int(g.NumVertices) * int(g.Stride)
	if size > r.Len() {
		return ErrTruncatedMeshData
	}
	g.Vertices = make([]byte, size)
	if _, err := io.ReadFull(r, g.Vertices); err != nil {
		return ErrTruncatedMeshData
	}
	return nil
}

func readIndexBuffer(r *bytes.Reader, g *MeshGroup) error {
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return ErrTruncatedMeshData
	}
	if int64(count)*2 > int64(r.Len()) {
		return ErrTruncatedMeshData
	}
	g.Indices = make([]uint16, count)
	if err := binary.Read(r, binary.LittleEndian, g.Indices); err != nil {
		return ErrTruncatedMeshData
	}
	return nil
}

func readPrimitives(r *bytes.Reader, g *MeshGroup) error {
	material, err := readString(r)
	if err != nil {
		return err
	}
	g.Material = material

	var count uint16
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return ErrTruncatedMeshData
	}

	g.Primitives = make([]MeshPrimitive, 0, count)
	for i := 0; i < int(count); i++ {
		var prim MeshPrimitive
		if prim.Name, err = readString(r); err != nil {
			return err
		}
		ranges := [4]uint32{}
		if err := binary.Read(r, binary.LittleEndian, &ranges); err != nil {
			return ErrTruncatedMeshData
		}
		prim.StartIndex, prim.NumIndices = ranges[0], ranges[1]
		prim.StartVertex, prim.NumVertices = ranges[2], ranges[3]
		if err := readBounds(r, &prim.Sphere, &prim.AABB, &prim.OBB); err != nil {
			return err
		}
		g.Primitives = append(g.Primitives, prim)
	}
	return nil
}

func readBounds(r *bytes.Reader, sphere *MeshSphere, aabb *MeshAABB, obb *MeshOBB) error {
	if err := binary.Read(r, binary.LittleEndian, sphere); err != nil {
		return ErrTruncatedMeshData
	}
	if err := binary.Read(r, binary.LittleEndian, aabb); err != nil {
		return ErrTruncatedMeshData
	}
	if err := binary.Read(r, binary.LittleEndian, obb); err != nil {
		return ErrTruncatedMeshData
	}
	return nil
}

func readString(r *bytes.Reader) (string, error) {
	var n uint16
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", ErrTruncatedMeshData
	}
	if int(n) > r.Len() {
		return "", ErrTruncatedMeshData
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", ErrTruncatedMeshData
	}
	return string(buf), nil
}

// WriteMesh encodes m in the chunked mesh format.
func WriteMesh(w io.Writer, m *MeshFile) error {
	var buf bytes.Buffer
	for i := range m.Groups {
		g := &m.Groups[i]
		if len(g.Indices) == 0 {
			return fmt.Errorf("group %d: %w", i, ErrMeshMissingIndices)
		}

		binary.Write(&buf, binary.LittleEndian, ChunkVertexBuffer)
		writeBounds(&buf, g.Sphere, g.AABB, g.OBB)
		binary.Write(&buf, binary.LittleEndian, g.Stride)
		binary.Write(&buf, binary.LittleEndian, g.NumVertices)
		buf.Write(g.Vertices)

		binary.Write(&buf, binary.LittleEndian, ChunkIndexBuffer)
		binary.Write(&buf, binary.LittleEndian, uint32(len(g.Indices)))
		binary.Write(&buf, binary.LittleEndian, g.Indices)

		binary.Write(&buf, binary.LittleEndian, ChunkPrimitive)
		if err := writeString(&buf, g.Material); err != nil {
			return err
		}
		binary.Write(&buf, binary.LittleEndian, uint16(len(g.Primitives)))
		for _, prim := range g.Primitives {
			if err := writeString(&buf, prim.Name); err != nil {
				return err
			}
			binary.Write(&buf, binary.LittleEndian, [4]uint32{prim.StartIndex, prim.NumIndices, prim.StartVertex, prim.NumVertices})
			writeBounds(&buf, prim.Sphere, prim.AABB, prim.OBB)
		}
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// SaveMesh writes m to path.
func SaveMesh(path string, m *MeshFile) error {
	var buf bytes.Buffer
	if err := WriteMesh(&buf, m); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing mesh file: %w", err)
	}
	return nil
}

func writeBounds(buf *bytes.Buffer, sphere MeshSphere, aabb MeshAABB, obb MeshOBB) {
	binary.Write(buf, binary.LittleEndian, sphere)
	binary.Write(buf, binary.LittleEndian, aabb)
	binary.Write(buf, binary.LittleEndian, obb)
}

func writeString(buf *bytes.Buffer, s string) error {
	if len(s) > 0xFFFF {
		return ErrMeshStringTooLong
	}
	binary.Write(buf, binary.LittleEndian, uint16(len(s)))
	buf.WriteString(s)
	return nil
}
