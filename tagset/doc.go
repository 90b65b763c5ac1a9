// Package tagset loads declarative tag manifests into a registry.
//
// A manifest is a small YAML document naming the tag hierarchy an embedding
// wants in place before any pointers are registered, plus any well-known
// addresses to pin at startup:
//
//	version: 1
//	tags:
//	  - tag: AVFrame
//	    parent: AVBuffer
//	  - tag: AVPacket
//	    parent: AVBuffer
//	pins:
//	  - addr: "0xdead0001"
//	    tag: sentinel
//
// Load or Parse decode and validate the document; Apply replays it onto a
// registry. Schema emits a JSON Schema for the manifest format so editors
// and CI can validate documents without this library.
package tagset
