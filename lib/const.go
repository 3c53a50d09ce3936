package lib

// Version of the signgate client and gateway.
const Version = "v1.2.0"

// DateFormat is the layout used for date-only values on the wire.
const DateFormat = "2006-01-02"
