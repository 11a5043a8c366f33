package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for the persisted domain types. Hand-maintained: field
// order is part of the storage format, append new fields at the end only.
var (
	IDMUS       = idSer{}
	ChunkMUS    = chunkSer{}
	DocumentMUS = documentSer{}
)

var (
	vectorMUS   = ord.NewSliceSer[float32](varint.Float32)
	metadataMUS = ord.NewMapSer[string, string](ord.String, ord.String)
)

type idSer struct{}

func (idSer) Marshal(id ID, bs []byte) int {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (idSer) Unmarshal(bs []byte) (ID, int, error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

func (idSer) Size(id ID) int {
	return varint.Uint64.Size(uint64(id))
}

func (idSer) Skip(bs []byte) (int, error) {
	return varint.Uint64.Skip(bs)
}

type chunkSer struct{}

func (chunkSer) Marshal(c Chunk, bs []byte) (n int) {
	n = IDMUS.Marshal(c.Id, bs)
	n += IDMUS.Marshal(c.DocumentID, bs[n:])
	n += varint.Int.Marshal(c.ChunkIndex, bs[n:])
	n += ord.String.Marshal(c.Content, bs[n:])
	n += ord.String.Marshal(string(c.SectionType), bs[n:])
	n += varint.Int.Marshal(c.TokenCount, bs[n:])
	n += vectorMUS.Marshal(c.Vector, bs[n:])
	n += metadataMUS.Marshal(c.Metadata, bs[n:])
	n += varint.Int64.Marshal(c.CreatedAt.UnixMicro(), bs[n:])
	return n
}

func (chunkSer) Unmarshal(bs []byte) (c Chunk, n int, err error) {
	var n1 int
	if c.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if c.DocumentID, n1, err = IDMUS.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if c.ChunkIndex, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if c.Content, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	var sectionType string
	if sectionType, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	c.SectionType = SectionType(sectionType)
	if c.TokenCount, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if c.Vector, n1, err = vectorMUS.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if c.Metadata, n1, err = metadataMUS.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	var createdAt int64
	if createdAt, n1, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	c.CreatedAt = time.UnixMicro(createdAt).UTC()
	return
}

func (chunkSer) Size(c Chunk) (size int) {
	size = IDMUS.Size(c.Id)
	size += IDMUS.Size(c.DocumentID)
	size += varint.Int.Size(c.ChunkIndex)
	size += ord.String.Size(c.Content)
	size += ord.String.Size(string(c.SectionType))
	size += varint.Int.Size(c.TokenCount)
	size += vectorMUS.Size(c.Vector)
	size += metadataMUS.Size(c.Metadata)
	size += varint.Int64.Size(c.CreatedAt.UnixMicro())
	return size
}

func (s chunkSer) Skip(bs []byte) (n int, err error) {
	c, n, err := s.Unmarshal(bs)
	_ = c
	return n, err
}

type documentSer struct{}

func (documentSer) Marshal(d Document, bs []byte) (n int) {
	n = IDMUS.Marshal(d.Id, bs)
	n += IDMUS.Marshal(d.OwnerID, bs[n:])
	n += ord.String.Marshal(d.Filename, bs[n:])
	n += ord.String.Marshal(d.Type, bs[n:])
	n += ord.String.Marshal(string(d.Status), bs[n:])
	n += varint.Int.Marshal(d.PageCount, bs[n:])
	n += varint.Int64.Marshal(d.CreatedAt.UnixMicro(), bs[n:])
	n += varint.Int64.Marshal(d.UpdatedAt.UnixMicro(), bs[n:])
	return n
}

func (documentSer) Unmarshal(bs []byte) (d Document, n int, err error) {
	var n1 int
	if d.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if d.OwnerID, n1, err = IDMUS.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if d.Filename, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if d.Type, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	var status string
	if status, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	d.Status = DocumentStatus(status)
	if d.PageCount, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	var createdAt, updatedAt int64
	if createdAt, n1, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if updatedAt, n1, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	d.CreatedAt = time.UnixMicro(createdAt).UTC()
	d.UpdatedAt = time.UnixMicro(updatedAt).UTC()
	return
}

func (documentSer) Size(d Document) (size int) {
	size = IDMUS.Size(d.Id)
	size += IDMUS.Size(d.OwnerID)
	size += ord.String.Size(d.Filename)
	size += ord.String.Size(d.Type)
	size += ord.String.Size(string(d.Status))
	size += varint.Int.Size(d.PageCount)
	size += varint.Int64.Size(d.CreatedAt.UnixMicro())
	size += varint.Int64.Size(d.UpdatedAt.UnixMicro())
	return size
}

func (s documentSer) Skip(bs []byte) (n int, err error) {
	d, n, err := s.Unmarshal(bs)
	_ = d
	return n, err
}
