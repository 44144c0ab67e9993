package entropy

var Interesting = interesting
