// Package replay defines the replay data model consumed by techpath.
//
// Decoding the binary replay format is the job of an external parser. This
// package consumes the parser's output contract:
//
//	{
//	  "players": {
//	    "1": {
//	      "name": "Serral",
//	      "race": "Zerg",
//	      "is_winner": true,
//	      "buildOrder": [
//	        {"name": "Drone", "time": "0:12"},
//	        {"name": "Overlord", "time": "0:18"}
//	      ]
//	    }
//	  }
//	}
//
// The contract can be read from a dump file ([ReadFile], JSON or YAML) or
// produced on the fly by running a parser command ([RunParser]). [Load]
// picks the right path from the file extension.
//
// # Time Values
//
// Build events carry their elapsed time as "MM:SS" text. [ParseTime] converts
// it to minutes in one of two modes:
//
//   - [TimeDecimal] reads the separator as a decimal point ("1:30" is 1.30).
//     This keeps images identical to those produced by earlier tooling, but
//     seconds are not proportional: "0:59" (0.59) sits closer to 1:00 than
//     "0:30" does to 0:15.
//   - [TimeMinutes] performs the base-60 conversion ("1:30" is 1.5).
package replay
