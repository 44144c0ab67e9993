// 27 april 2020

/*
Entropy calculates sequence entropy from a multiple sequence alignment
and turns it into colours for a structure viewer.
If given a reference sequence, it will also calculate the probability of finding
that sequence's residue at a particular position.

Given no explicit input path, it reads from standard input.
Given no output filename, it write to standard output.
Entropy is in bits. By default gaps are not symbols, but they count in
the total, so a column with many gaps has a lower entropy. With
--gaps=ignore they are left out altogether and with --gaps=char a gap is
one more symbol.

Colours go from --low (conserved) to --high. The entropy is divided by
something first. With --norm=global it is the biggest entropy the
alphabet allows. The code guesses whether you have DNA or protein by
looking at the symbols. This can be fooled, so you can also specify how
many symbols should be used. If you have a DNA sequence, but there are
some "X" characters, the code will think it has an alphabet of size 5.
You would then have to tell it to use four symbols. With
--norm=observed each column is divided by the biggest entropy it could
have with the symbols and gaps seen in it.

The output is a csv file for plotting with some other program. It has a header line which programs like excel like, but gnuplot is less keen on. R's read.csv() has an option to tell it there is a header line.

Usage:

	entropy [flags] [input [output]]

Some of the flags are:

	-f, --offset
		Output numbers the first residue starting from 1. Use an offset to be added or subtracted (if negative) to each number.
	-g, --gaps
		total, ignore or char
	-n, --nsym
		Set the size of the alphabet and override the guess. 20 for protein. 4 for DNA.
	-r, --ref
		Specify a reference sequence by give a string which will be searched
		for in the comment lines of the sequences, or its position counting from 1.
	-s, --squash
		Drop the columns where the reference has a gap, so numbering follows the reference.
	--tree, --node
		Only use the sequences of the leaves below a node of a newick tree.

Settings can also come from seq_colour.yaml (or .toml) in the working
directory or ~/.config, or SEQCOLOUR_ environment variables. Flags win.

If you have a reference sequence, the compatibility of each base/residue will be calculated and printed out.
*/
package main
