// Package io provides JSON and YAML import and export for family records.
//
// # Overview
//
// The portal's family data source hands over a flat list of member records.
// This package decodes that list into a [family.RecordSet] and encodes record
// sets back out, so that exports can be reproduced from a saved snapshot.
//
// # Record Format
//
// Either a bare array or an object with a "members" array is accepted:
//
//	[
//	  {"serNo": 1, "name": "A", "gender": "Male", "level": 1,
//	   "sonDaughterCount": 2, "childrenSerNos": [2, 3]},
//	  {"serNo": 2, "name": "B", "level": 2, "fatherSerNo": 1, "childrenSerNos": []},
//	  {"serNo": 3, "name": "C", "level": 2, "fatherSerNo": 1, "childrenSerNos": []}
//	]
//
// Optional fields: vansh, spouse ({"name", "serNo"}), fatherSerNo, motherSerNo,
// biography, occupation, dateOfBirth, place. Gender strings other than
// Male/Female (any case) decode as Unknown.
//
// YAML uses the same keys.
//
// # Import
//
// Use [ImportRecords] to read from a file path (format chosen by extension),
// or [ReadRecords] to read from any io.Reader:
//
//	records, err := io.ImportRecords("family.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Decoding fails on malformed input and on duplicate or non-positive serNos.
// Dangling references are not errors; see [family.RecordSet.Validate].
//
// # Export
//
// Use [WriteRecords] or [ExportRecords]. Output is indented JSON (or YAML)
// in the record set's original order and re-imports identically.
package io
