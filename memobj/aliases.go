package memobj

import "github.com/partite-ai/refgo/ref"

// Shorthand for the handle type of each class.
type (
	ObjectHandle = Handle[Object]
	NullHandle   = Handle[Null]
	BoolHandle   = Handle[Bool]
	NumberHandle = Handle[Number]
	StringHandle = Handle[String]
	DataHandle   = Handle[Data]
	DateHandle   = Handle[Date]
	UUIDHandle   = Handle[UUID]
	ArrayHandle  = Handle[Array]
	DictHandle   = Handle[Dict]
	SetHandle    = Handle[Set]
)

// Shorthand for an owning ref of each class.
type (
	ObjectRef = ref.Ref[Handle[Object]]
	NullRef   = ref.Ref[Handle[Null]]
	BoolRef   = ref.Ref[Handle[Bool]]
	NumberRef = ref.Ref[Handle[Number]]
	StringRef = ref.Ref[Handle[String]]
	DataRef   = ref.Ref[Handle[Data]]
	DateRef   = ref.Ref[Handle[Date]]
	UUIDRef   = ref.Ref[Handle[UUID]]
	ArrayRef  = ref.Ref[Handle[Array]]
	DictRef   = ref.Ref[Handle[Dict]]
	SetRef    = ref.Ref[Handle[Set]]
)
