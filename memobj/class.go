package memobj

// TypeID identifies the class of an object at runtime.
type TypeID uint32

const (
	TypeInvalid TypeID = iota
	TypeNull
	TypeBool
	TypeNumber
	TypeString
	TypeData
	TypeDate
	TypeUUID
	TypeArray
	TypeDict
	TypeSet
	numTypes
)

func (t TypeID) String() string {
	switch t {
	case TypeNull:
		return "null"
	case TypeBool:
		return "bool"
	case TypeNumber:
		return "number"
	case TypeString:
		return "string"
	case TypeData:
		return "data"
	case TypeDate:
		return "date"
	case TypeUUID:
		return "uuid"
	case TypeArray:
		return "array"
	case TypeDict:
		return "dict"
	case TypeSet:
		return "set"
	}
	return "invalid"
}

// Class restricts Handle to the object classes of this package. Each class
// is a marker type used only as a type parameter.
type Class interface {
	classID() TypeID
}

// Object is the erased class: a Handle[Object] may designate an object of
// any class. Containers hold their members erased.
type Object struct{}

type (
	Null   struct{}
	Bool   struct{}
	Number struct{}
	String struct{}
	Data   struct{}
	Date   struct{}
	UUID   struct{}
	Array  struct{}
	Dict   struct{}
	Set    struct{}
)

func (Object) classID() TypeID { return TypeInvalid }
func (Null) classID() TypeID   { return TypeNull }
func (Bool) classID() TypeID   { return TypeBool }
func (Number) classID() TypeID { return TypeNumber }
func (String) classID() TypeID { return TypeString }
func (Data) classID() TypeID   { return TypeData }
func (Date) classID() TypeID   { return TypeDate }
func (UUID) classID() TypeID   { return TypeUUID }
func (Array) classID() TypeID  { return TypeArray }
func (Dict) classID() TypeID   { return TypeDict }
func (Set) classID() TypeID    { return TypeSet }

func classIDOf[C Class]() TypeID {
	var c C
	return c.classID()
}
