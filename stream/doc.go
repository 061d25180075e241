// Package stream provides streaming encode/decode of JSON documents.
//
// The stream package converts JSON to structural events and builds
// document trees from them with an explicit container stack, so nesting
// depth is bounded by ir.MaxDepth instead of the Go stack. Tokens come from
// the ojg tokenizer.
//
// # Example: Encoding
//
//	enc := stream.NewEncoder(writer)
//	enc.BeginObject()
//	enc.WriteKey("name")
//	enc.WriteString("value")
//	enc.EndObject()
//	enc.Flush()
//
// # Example: Decoding
//
//	root, err := stream.DecodeNode(reader)
//
// # Numbers
//
// Integers are read as int64 and numbers with a fraction or exponent as
// float64, so 1 and 1.0 stay distinct. Numbers out of range become
// *big.Int or *big.Float. On output floats always carry a fraction or
// exponent.
//
// # Shadows
//
// Dates are written as epoch milliseconds and enums as ordinals. By
// default each is followed by a shadow property "_name" holding the
// readable form; see WithShadows.
package stream
