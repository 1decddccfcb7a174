/*
Package codec holds the three encodings records pass through.

  - Boundary JSON: DecodeStrict is the validation gate for external payloads and
    EncodeJSON produces what callers receive.
  - Storage: Marshal and Unmarshal use msgpack with the json field names.
  - Export documents: WriteDocument and ReadDocument carry every record of one
    data set as JSON or YAML.

The boundary and storage encodings are independent; each round-trips a record
to an equal value.
*/
package codec
