package testutil

// Hand-assembled WASM modules for tests.
//
// The model guests implement the model ABI. Each exports a memory,
// allocate (always 1024), initdata (a fixed status) and traj, which
// returns the packed location of a JSON document held in a data segment
// at offset 2048.
var (
	// ModelGuest: initdata returns 0, traj returns {"density":0.0889,"sos":295.1}.
	ModelGuest = []byte("\x00\x61\x73\x6d\x01\x00\x00\x00\x01\x16\x03\x60\x01\x7f\x01\x7f\x60\x02\x7f\x7f\x01\x7f\x60\x06\x7c\x7c\x7c\x7c\x7f\x7f\x01\x7e\x03\x04\x03\x00\x01\x02\x05\x03\x01\x00\x01\x07\x27\x04\x06\x6d\x65\x6d\x6f\x72\x79\x02\x00\x08\x61\x6c\x6c\x6f\x63\x61\x74\x65\x00\x00\x08\x69\x6e\x69\x74\x64\x61\x74\x61\x00\x01\x04\x74\x72\x61\x6a\x00\x02\x0a\x17\x03\x05\x00\x41\x80\x08\x0b\x04\x00\x41\x00\x0b\x0a\x00\x42\x9e\x80\x80\x80\x80\x80\x02\x0b\x0b\x25\x01\x00\x41\x80\x10\x0b\x1e\x7b\x22\x64\x65\x6e\x73\x69\x74\x79\x22\x3a\x30\x2e\x30\x38\x38\x39\x2c\x22\x73\x6f\x73\x22\x3a\x32\x39\x35\x2e\x31\x7d")

	// ModelGuestInitFail: initdata returns 3.
	ModelGuestInitFail = []byte("\x00\x61\x73\x6d\x01\x00\x00\x00\x01\x16\x03\x60\x01\x7f\x01\x7f\x60\x02\x7f\x7f\x01\x7f\x60\x06\x7c\x7c\x7c\x7c\x7f\x7f\x01\x7e\x03\x04\x03\x00\x01\x02\x05\x03\x01\x00\x01\x07\x27\x04\x06\x6d\x65\x6d\x6f\x72\x79\x02\x00\x08\x61\x6c\x6c\x6f\x63\x61\x74\x65\x00\x00\x08\x69\x6e\x69\x74\x64\x61\x74\x61\x00\x01\x04\x74\x72\x61\x6a\x00\x02\x0a\x17\x03\x05\x00\x41\x80\x08\x0b\x04\x00\x41\x03\x0b\x0a\x00\x42\x92\x80\x80\x80\x80\x80\x02\x0b\x0b\x19\x01\x00\x41\x80\x10\x0b\x12\x7b\x22\x64\x65\x6e\x73\x69\x74\x79\x22\x3a\x30\x2e\x30\x38\x38\x39\x7d")

	// ModelGuestEvalFail: traj returns {"error":"altitude out of range"}.
	ModelGuestEvalFail = []byte("\x00\x61\x73\x6d\x01\x00\x00\x00\x01\x16\x03\x60\x01\x7f\x01\x7f\x60\x02\x7f\x7f\x01\x7f\x60\x06\x7c\x7c\x7c\x7c\x7f\x7f\x01\x7e\x03\x04\x03\x00\x01\x02\x05\x03\x01\x00\x01\x07\x27\x04\x06\x6d\x65\x6d\x6f\x72\x79\x02\x00\x08\x61\x6c\x6c\x6f\x63\x61\x74\x65\x00\x00\x08\x69\x6e\x69\x74\x64\x61\x74\x61\x00\x01\x04\x74\x72\x61\x6a\x00\x02\x0a\x17\x03\x05\x00\x41\x80\x08\x0b\x04\x00\x41\x00\x0b\x0a\x00\x42\xa1\x80\x80\x80\x80\x80\x02\x0b\x0b\x28\x01\x00\x41\x80\x10\x0b\x21\x7b\x22\x65\x72\x72\x6f\x72\x22\x3a\x22\x61\x6c\x74\x69\x74\x75\x64\x65\x20\x6f\x75\x74\x20\x6f\x66\x20\x72\x61\x6e\x67\x65\x22\x7d")

	// EmptyGuest is a valid module with no exports.
	EmptyGuest = []byte("\x00asm\x01\x00\x00\x00")

	// CallerGuest imports get_atm_density and log_message from
	// atmdensity_host. Export "call" sends CallerRequest to get_atm_density
	// and returns the packed response; export "log" sends CallerLogRecord to
	// log_message. Its allocate always returns 4096.
	CallerGuest = []byte("\x00\x61\x73\x6d\x01\x00\x00\x00\x01\x16\x05\x60\x01\x7e\x01\x7e\x60\x01\x7e\x00\x60\x01\x7f\x01\x7f\x60\x00\x01\x7e\x60\x00\x00\x02\x41\x02\x0f\x61\x74\x6d\x64\x65\x6e\x73\x69\x74\x79\x5f\x68\x6f\x73\x74\x0f\x67\x65\x74\x5f\x61\x74\x6d\x5f\x64\x65\x6e\x73\x69\x74\x79\x00\x00\x0f\x61\x74\x6d\x64\x65\x6e\x73\x69\x74\x79\x5f\x68\x6f\x73\x74\x0b\x6c\x6f\x67\x5f\x6d\x65\x73\x73\x61\x67\x65\x00\x01\x03\x04\x03\x02\x03\x04\x05\x03\x01\x00\x01\x07\x22\x04\x06\x6d\x65\x6d\x6f\x72\x79\x02\x00\x08\x61\x6c\x6c\x6f\x63\x61\x74\x65\x00\x02\x04\x63\x61\x6c\x6c\x00\x03\x03\x6c\x6f\x67\x00\x04\x0a\x21\x03\x05\x00\x41\x80\x20\x0b\x0c\x00\x42\xa4\x81\x80\x80\x80\x80\x01\x10\x00\x0b\x0c\x00\x42\xde\x80\x80\x80\x80\xc0\x01\x10\x01\x0b\x0b\x90\x02\x02\x00\x41\x80\x08\x0b\xa4\x01\x7b\x22\x6e\x61\x72\x67\x6f\x75\x74\x22\x3a\x31\x2c\x22\x69\x6e\x70\x75\x74\x73\x22\x3a\x5b\x7b\x22\x63\x6c\x61\x73\x73\x22\x3a\x22\x64\x6f\x75\x62\x6c\x65\x22\x2c\x22\x72\x65\x61\x6c\x22\x3a\x5b\x32\x30\x5d\x7d\x2c\x7b\x22\x63\x6c\x61\x73\x73\x22\x3a\x22\x64\x6f\x75\x62\x6c\x65\x22\x2c\x22\x72\x65\x61\x6c\x22\x3a\x5b\x33\x30\x5d\x7d\x2c\x7b\x22\x63\x6c\x61\x73\x73\x22\x3a\x22\x64\x6f\x75\x62\x6c\x65\x22\x2c\x22\x72\x65\x61\x6c\x22\x3a\x5b\x31\x32\x30\x5d\x7d\x2c\x7b\x22\x63\x6c\x61\x73\x73\x22\x3a\x22\x63\x68\x61\x72\x22\x2c\x22\x74\x65\x78\x74\x22\x3a\x22\x32\x30\x31\x39\x2d\x30\x31\x2d\x32\x35\x20\x31\x34\x3a\x33\x30\x3a\x30\x30\x22\x7d\x5d\x7d\x00\x41\x80\x0c\x0b\x5e\x7b\x22\x6c\x65\x76\x65\x6c\x22\x3a\x22\x57\x41\x52\x4e\x22\x2c\x22\x6d\x65\x73\x73\x61\x67\x65\x22\x3a\x22\x67\x75\x65\x73\x74\x20\x73\x61\x79\x73\x20\x68\x69\x22\x2c\x22\x61\x74\x74\x72\x73\x22\x3a\x5b\x7b\x22\x6b\x65\x79\x22\x3a\x22\x73\x74\x65\x70\x22\x2c\x22\x74\x79\x70\x65\x22\x3a\x22\x69\x6e\x74\x36\x34\x22\x2c\x22\x76\x61\x6c\x75\x65\x22\x3a\x22\x37\x22\x7d\x5d\x7d")
)

// CallerRequest is the payload CallerGuest sends.
const CallerRequest = `{"nargout":1,"inputs":[{"class":"double","real":[20]},{"class":"double","real":[30]},{"class":"double","real":[120]},{"class":"char","text":"2019-01-25 14:30:00"}]}`

// CallerLogRecord is the record CallerGuest logs.
const CallerLogRecord = `{"level":"WARN","message":"guest says hi","attrs":[{"key":"step","type":"int64","value":"7"}]}`
