/*
Package safeen implements an embedded, schema'd record store: a named
collection of typed tables held in memory, queried and mutated through
predicates, and persisted as a whole into a single binary file.

We implement:

1. Values: a closed set of types (String, Char, Int8, Int64, UInt64, Bool,
Float32, Float64 and arbitrarily nested Array) with exact conversions to and
from native Go values.

2. Tables with a fixed column schema. Every insert is type-checked, and so
is every row read back from disk.

3. Predicate operations: GetWhere, SetWhere, RemoveWhere, IncWhere and
PushWhere, all as full scans.

4. Whole-database persistence to files, Bolt buckets or memory, and
export/import through MsgPack or JSON.

A Database is not safe for concurrent use.

# File format

All integers are little-endian.

**Values** are not self-describing; the reader supplies the type from the
schema.

  - String: one length-of-length byte n (0..8), n bytes of length, then
    the UTF-8 payload. The length is written in the minimal number of
    bytes, so an empty string is a single zero byte.
  - Int8, Bool: 1 byte. Char, Float32: 4 bytes. Int64, UInt64, Float64:
    8 bytes.
  - Array: 8-byte element count, then the elements. An empty array is just
    a zero count; its element type comes from the schema.

**Type tags** are one kind byte per nesting level: Array(Array(Int64)) is
08 08 03.

**Body**:

	body   = name:String table_count:u64 table*
	table  = name:String column_count:u64 column* row_count:u64 row*
	column = key:String type nullable:Bool
	row    = value*   (one per column, schema order)

**v1 image** (the default):

	"SAFEEN" version:u8 flags:u8 body checksum:u64

flags bit 0 means the body is Snappy-compressed. The checksum is the
XXH64 of every preceding byte.

**Legacy image** is the bare body, with two-byte type tags (base kind,
then the element kind for arrays or 0) and no nullable flags. It can only
describe one level of array nesting. Legacy images are recognized by the
absence of the magic: a legacy body starts with a length-of-length byte,
which is never 'S'.
*/
package safeen
