package slackrelay

// VERSION is the slackrelay version
const VERSION = "1.0.0"
