package protocol

import (
	"encoding/json"
	"maps"
	"slices"
)

// PatchOp is the type of patch operation.
type PatchOp uint8

const (
	PatchSetAttr     PatchOp = 0x02 // Set attribute
	PatchRemoveAttr  PatchOp = 0x03 // Remove attribute
	PatchAddClass    PatchOp = 0x10 // Add CSS class
	PatchRemoveClass PatchOp = 0x11 // Remove CSS class
	PatchSetData     PatchOp = 0x15 // Set data-* attribute
	PatchDispatch    PatchOp = 0x20 // Dispatch a CustomEvent on window
)

// String returns the string representation of the patch operation.
func (op PatchOp) String() string {
	switch op {
	case PatchSetAttr:
		return "SetAttr"
	case PatchRemoveAttr:
		return "RemoveAttr"
	case PatchAddClass:
		return "AddClass"
	case PatchRemoveClass:
		return "RemoveClass"
	case PatchSetData:
		return "SetData"
	case PatchDispatch:
		return "Dispatch"
	default:
		return "Unknown"
	}
}

// Patch is a single DOM operation. Key is the attribute, data key, or event
// name; Value is the attribute value, class name, or JSON event detail.
type Patch struct {
	Op    PatchOp
	HID   string
	Key   string
	Value string
}

// SetData returns a patch setting data-key on the element hid.
func SetData(hid, key, value string) Patch {
	return Patch{Op: PatchSetData, HID: hid, Key: key, Value: value}
}

// SetAttr returns a patch setting an attribute on the element hid.
func SetAttr(hid, key, value string) Patch {
	return Patch{Op: PatchSetAttr, HID: hid, Key: key, Value: value}
}

// AddClass returns a patch adding class to the element hid.
func AddClass(hid, class string) Patch {
	return Patch{Op: PatchAddClass, HID: hid, Value: class}
}

// RemoveClass returns a patch removing class from the element hid.
func RemoveClass(hid, class string) Patch {
	return Patch{Op: PatchRemoveClass, HID: hid, Value: class}
}

// Dispatch returns a patch that fires a CustomEvent named name with detail
// marshalled to JSON.
func Dispatch(name string, detail any) (Patch, error) {
	b, err := json.Marshal(detail)
	if err != nil {
		return Patch{}, err
	}
	return Patch{Op: PatchDispatch, Key: name, Value: string(b)}, nil
}

// PatchesFrame is a batch of patches with a sequence number.
type PatchesFrame struct {
	Seq     uint64
	Patches []Patch
}

// EncodePatches encodes a patches frame payload.
func EncodePatches(pf *PatchesFrame) []byte {
	e := NewEncoder()
	e.WriteUvarint(pf.Seq)
	e.WriteUvarint(uint64(len(pf.Patches)))
	for i := range pf.Patches {
		p := &pf.Patches[i]
		e.WriteByte(byte(p.Op))
		e.WriteString(p.HID)
		switch p.Op {
		case PatchSetAttr, PatchSetData, PatchDispatch:
			e.WriteString(p.Key)
			e.WriteString(p.Value)
		case PatchRemoveAttr:
			e.WriteString(p.Key)
		case PatchAddClass, PatchRemoveClass:
			e.WriteString(p.Value)
		}
	}
	return e.Bytes()
}

// DecodePatches decodes a patches frame payload.
func DecodePatches(data []byte) (*PatchesFrame, error) {
	d := NewDecoder(data)
	seq, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}
	count, err := d.ReadCollectionCount()
	if err != nil {
		return nil, err
	}
	pf := &PatchesFrame{Seq: seq, Patches: make([]Patch, count)}
	for i := range pf.Patches {
		p := &pf.Patches[i]
		op, err := d.ReadByte()
		if err != nil {
			return nil, err
		}
		p.Op = PatchOp(op)
		if p.HID, err = d.ReadString(); err != nil {
			return nil, err
		}
		switch p.Op {
		case PatchSetAttr, PatchSetData, PatchDispatch:
			if p.Key, err = d.ReadString(); err != nil {
				return nil, err
			}
			if p.Value, err = d.ReadString(); err != nil {
				return nil, err
			}
		case PatchRemoveAttr:
			if p.Key, err = d.ReadString(); err != nil {
				return nil, err
			}
		case PatchAddClass, PatchRemoveClass:
			if p.Value, err = d.ReadString(); err != nil {
				return nil, err
			}
		}
	}
	return pf, nil
}

func sortedKeys(m map[string]string) []string {
	return slices.Sorted(maps.Keys(m))
}
