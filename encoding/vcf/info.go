package vcf

import "bytes"

// LookupInfo returns the value of key in an INFO column
// ("K1=V1;FLAG;K2=V2").  A flag key yields an empty value.  The second
// result is false if the key is absent or the column is ".".
func LookupInfo(info []byte, key string) ([]byte, bool) {
	for len(info) > 0 {
		var entry []byte
		if i := bytes.IndexByte(info, ';'); i >= 0 {
			entry, info = info[:i], info[i+1:]
		} else {
			entry, info = info, nil
		}
		k, v := entry, []byte(nil)
		if i := bytes.IndexByte(entry, '='); i >= 0 {
			k, v = entry[:i], entry[i+1:]
		}
		if string(k) == key {
			return v, true
		}
	}
	return nil, false
}
