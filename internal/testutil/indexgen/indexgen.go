// Package indexgen writes byte-exact v1 and v2 resource index files from one
// logical description, so tests can run the same scenario through both
// parsers.
package indexgen

import (
	"cmp"
	"slices"

	"github.com/joshuapare/resindex/internal/buf"
	"github.com/joshuapare/resindex/internal/format"
	"github.com/joshuapare/resindex/pkg/types"
	"github.com/joshuapare/resindex/resconfig"
)

// DefaultVersion is written into the header when Index.Version is empty.
const DefaultVersion = "Restool 5.0.0"

// Value is one resource under one qualifier directory.
type Value struct {
	Type   types.ResType
	ID     uint32
	Name   string
	Value  string
	Values []string
}

// Dir is one qualifier directory.
type Dir struct {
	Params []resconfig.QualifierParam
	Values []Value
}

// Index is a logical index.
type Index struct {
	Version string
	Dirs    []Dir
}

// Param helpers.

func Lang(s string) resconfig.QualifierParam {
	return resconfig.NewQualifierParam(resconfig.KeyLanguages, resconfig.EncodeLocaleValue(s))
}

func Script(s string) resconfig.QualifierParam {
	return resconfig.NewQualifierParam(resconfig.KeyScript, resconfig.EncodeLocaleValue(s))
}

func Region(s string) resconfig.QualifierParam {
	return resconfig.NewQualifierParam(resconfig.KeyRegion, resconfig.EncodeLocaleValue(s))
}

func Device(d resconfig.DeviceType) resconfig.QualifierParam {
	return resconfig.NewQualifierParam(resconfig.KeyDeviceType, uint32(d))
}

func Color(m resconfig.ColorMode) resconfig.QualifierParam {
	return resconfig.NewQualifierParam(resconfig.KeyColorMode, uint32(m))
}

func Direction(d resconfig.Direction) resconfig.QualifierParam {
	return resconfig.NewQualifierParam(resconfig.KeyDirection, uint32(d))
}

func Density(d resconfig.ScreenDensity) resconfig.QualifierParam {
	return resconfig.NewQualifierParam(resconfig.KeyScreenDensity, uint32(d))
}

func MCC(v uint32) resconfig.QualifierParam {
	return resconfig.NewQualifierParam(resconfig.KeyMCC, v)
}

func MNC(v uint32) resconfig.QualifierParam {
	return resconfig.NewQualifierParam(resconfig.KeyMNC, v)
}

func Input(i resconfig.InputDevice) resconfig.QualifierParam {
	return resconfig.NewQualifierParam(resconfig.KeyInputDevice, uint32(i))
}

// String is a STRING value.
func String(id uint32, name, v string) Value {
	return Value{Type: types.STRING, ID: id, Name: name, Value: v}
}

func header(version string, keyCount uint32) []byte {
	if version == "" {
		version = DefaultVersion
	}
	out := make([]byte, format.VersionLen, format.HeaderV2Size)
	copy(out, version)
	out = buf.AppendU32LE(out, 0) // length, patched at the end
	return buf.AppendU32LE(out, keyCount)
}

func appendKey(b []byte, ref uint32, params []resconfig.QualifierParam) []byte {
	b = append(b, format.KeysTag[:]...)
	b = buf.AppendU32LE(b, ref)
	b = buf.AppendU32LE(b, uint32(len(params)))
	for _, p := range params {
		b = buf.AppendU32LE(b, uint32(p.Kind))
		b = buf.AppendU32LE(b, p.Value)
	}
	return b
}

// V1 renders the legacy layout: header, keys, then for each directory an
// IDSS block followed by its items.
func (ix *Index) V1() []byte {
	b := header(ix.Version, uint32(len(ix.Dirs)))
	keyOffsets := make([]int, len(ix.Dirs))
	for i, d := range ix.Dirs {
		keyOffsets[i] = len(b)
		b = appendKey(b, 0, d.Params)
	}
	for i, d := range ix.Dirs {
		buf.PutU32LE(b, keyOffsets[i]+4, uint32(len(b)))
		b = append(b, format.IdsTag[:]...)
		b = buf.AppendU32LE(b, uint32(len(d.Values)))
		pairs := len(b)
		b = append(b, make([]byte, len(d.Values)*format.IdParamSize)...)
		for j, v := range d.Values {
			buf.PutU32LE(b, pairs+j*format.IdParamSize, v.ID)
			buf.PutU32LE(b, pairs+j*format.IdParamSize+4, uint32(len(b)))
			b = appendV1Item(b, v)
		}
	}
	buf.PutU32LE(b, format.VersionLen, uint32(len(b)))
	return b
}

func appendV1Item(b []byte, v Value) []byte {
	start := len(b)
	b = buf.AppendU32LE(b, 0)
	b = buf.AppendU32LE(b, uint32(v.Type))
	b = buf.AppendU32LE(b, v.ID)
	if v.Type.IsArray() {
		body := arrayBody(v.Values)
		b = buf.AppendU16LE(b, uint16(len(body)+1))
		b = append(b, body...)
		b = append(b, 0)
	} else {
		b = appendV1String(b, v.Value)
	}
	b = appendV1String(b, v.Name)
	buf.PutU32LE(b, start, uint32(len(b)-start))
	return b
}

func appendV1String(b []byte, s string) []byte {
	b = buf.AppendU16LE(b, uint16(len(s)+1))
	b = append(b, s...)
	return append(b, 0)
}

func arrayBody(values []string) []byte {
	var b []byte
	for _, v := range values {
		b = buf.AppendU16LE(b, uint16(len(v)))
		b = append(b, v...)
		b = append(b, 0)
	}
	return b
}

type resKey struct {
	typ types.ResType
	id  uint32
}

type resource struct {
	resKey
	name   string
	values []qualified
}

type qualified struct {
	cfg int
	v   Value
}

// resources groups every value by (type, id), sorted by type and then by
// first appearance.
func (ix *Index) resources() []*resource {
	byKey := make(map[resKey]*resource)
	var order []*resource
	for ci, d := range ix.Dirs {
		for _, v := range d.Values {
			k := resKey{v.Type, v.ID}
			r, ok := byKey[k]
			if !ok {
				r = &resource{resKey: k, name: v.Name}
				byKey[k] = r
				order = append(order, r)
			}
			r.values = append(r.values, qualified{cfg: ci, v: v})
		}
	}
	slices.SortStableFunc(order, func(a, b *resource) int { return cmp.Compare(a.typ, b.typ) })
	return order
}

// V2 renders the lazy layout: header with data block offset, keys with
// config ids, the IDSS skeleton, then one ResInfo and its values per
// resource. Config ids are directory indexes.
func (ix *Index) V2() []byte {
	res := ix.resources()
	b := header(ix.Version, uint32(len(ix.Dirs)))
	b = buf.AppendU32LE(b, 0) // data block offset
	for i, d := range ix.Dirs {
		b = appendKey(b, uint32(i), d.Params)
	}

	var typeOrder []types.ResType
	for _, r := range res {
		if len(typeOrder) == 0 || typeOrder[len(typeOrder)-1] != r.typ {
			typeOrder = append(typeOrder, r.typ)
		}
	}
	idsSize := format.IdsHeaderV2Size + len(typeOrder)*format.TypeInfoSize
	for _, r := range res {
		idsSize += format.ResItemSize + len(r.name)
	}
	dataBlock := len(b) + idsSize

	// data block first, so the skeleton can point into it
	data := make([]byte, 0, 256)
	infoOffsets := make(map[resKey]uint32, len(res))
	for _, r := range res {
		infoOff := dataBlock + len(data)
		infoOffsets[r.resKey] = uint32(infoOff)
		infoSize := format.ResInfoSize + len(r.values)*format.ConfigItemSize
		var values []byte
		data = buf.AppendU32LE(data, r.id)
		data = buf.AppendU32LE(data, 0)
		data = buf.AppendU32LE(data, uint32(len(r.values)))
		for _, q := range r.values {
			data = buf.AppendU32LE(data, uint32(q.cfg))
			data = buf.AppendU32LE(data, uint32(infoOff+infoSize+len(values)))
			values = appendV2Value(values, q.v)
		}
		data = append(data, values...)
		buf.PutU32LE(data, infoOff-dataBlock+4, uint32(infoSize+len(values)))
	}

	b = append(b, format.IdsTag[:]...)
	b = buf.AppendU32LE(b, uint32(idsSize))
	b = buf.AppendU32LE(b, uint32(len(typeOrder)))
	b = buf.AppendU32LE(b, uint32(len(res)))
	for _, t := range typeOrder {
		section := len(b)
		b = buf.AppendU32LE(b, uint32(t))
		b = buf.AppendU32LE(b, 0)
		b = buf.AppendU32LE(b, 0)
		count := uint32(0)
		for _, r := range res {
			if r.typ != t {
				continue
			}
			b = buf.AppendU32LE(b, r.id)
			b = buf.AppendU32LE(b, infoOffsets[r.resKey])
			b = buf.AppendU32LE(b, uint32(len(r.name)))
			b = append(b, r.name...)
			count++
		}
		buf.PutU32LE(b, section+4, uint32(len(b)-section))
		buf.PutU32LE(b, section+8, count)
	}
	b = append(b, data...)
	buf.PutU32LE(b, format.VersionLen, uint32(len(b)))
	buf.PutU32LE(b, format.HeaderV1Size, uint32(dataBlock))
	return b
}

func appendV2Value(b []byte, v Value) []byte {
	if v.Type.IsArray() {
		body := arrayBody(v.Values)
		b = buf.AppendU16LE(b, uint16(len(body)))
		return append(b, body...)
	}
	b = buf.AppendU16LE(b, uint16(len(v.Value)))
	return append(b, v.Value...)
}
