// Package hostbridge exposes a registry to WebAssembly guests.
//
// The bridge registers a wazero host module whose functions let a guest
// validate, release and cast wrapped pointer values it holds as text.
// Raw addresses stay on the host side: a guest only ever sees the textual
// form, and every use goes back through the registry, so a stale or forged
// handle is rejected instead of dereferenced.
//
//	rt := wazero.NewRuntime(ctx)
//	bridge := hostbridge.NewWithDefaults(reg)
//	_, err := bridge.Instantiate(ctx, rt)
//
// Guests import the module by name (default "ptrreg_host"):
//
//	(import "ptrreg_host" "check"   (func (param i32 i32) (result i32)))
//	(import "ptrreg_host" "release" (func (param i32 i32) (result i32)))
//	(import "ptrreg_host" "cast"    (func (param i32 i32 i32 i32) (result i64)))
//
// check and release take the offset and length of wrapped-value text in
// guest linear memory and return a status code, zero for success. cast
// additionally takes the offset and length of the target tag; on success
// the new wrapped text is written to guest memory through the guest's
// allocate export and returned as offset<<32|length, and on failure the
// result is zero.
package hostbridge
