/*
Asrinfo reads ancestral state probabilities, a json object of node name
to an array of columns, each column a map of residue to probability. The
file may be zstd or gzip compressed.

For each --node it prints the consensus and the most probable residue of
every column. Ties go to the first residue in ACDEFGHIKLMNPQRSTVWY. If
--refs gives a fasta file with a sequence of the same name, columns
where the most probable residue differs are marked as important. With
--colours these become green and red for a structure viewer.

For each --clade it prints the information content of the alignment of
the leaves under the node, which needs --tree and --aln.

With --all, every node with a reference is checked and the important
columns listed, counting from one.

Usage:

	asrinfo [flags] store [output]
*/
package main
