// Package formatter turns captured records into the FireLogger wire
// format and back.
//
// JSONFormatter writes the {"logs": [...]} payload. Record keys are
// written in the fixed order the client expects and every string, keys
// included, is normalized to UTF-8 from the configured source charset
// first (see Normalizer). Pickled values are written without reflection;
// NaN and infinities, which JSON cannot express, become strings.
//
// Encoder adds the transport: the payload is base64 encoded with the
// standard alphabet and split into ChunkSize (76) character pieces, one
// header per piece:
//
//	FireLogger-1a2b3c4d-0: eyJsb2dzIjpbeyJuYW1lIjoiZ28iLCJhcmdzIjpbXSwibGV2ZWwiOiJpbmZvIiwidGltZXN0YW1w
//	FireLogger-1a2b3c4d-1: ...
//
// The session id is two random values in [0, 0xFFFF] in unpadded hex.
// Header names are set without canonicalization so the prefix keeps its
// exact casing.
//
// Decode is the client side: it collects the chunks of every session found
// in a header set, reassembles them and parses the payload with
// github.com/valyala/fastjson. TextFormatter renders records as one line
// each plus their trace.
//
// Formatters use a pooled bytes.Buffer internally. Buffers larger than
// 256 KiB are not returned to the pool.
package formatter
