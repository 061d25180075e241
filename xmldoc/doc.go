// Package xmldoc reads and writes documents as XML.
//
// The layout is attribute oriented:
//
//	<root test1="wow" test2="wow2">
//	  <sub _kind="array" test1="wow1"/>
//	  <sub _kind="array" test1="wow2"/>
//	  <conf _kind="object" level="3"/>
//	</root>
//
// The _kind marker lets single element arrays and empty arrays survive a
// round trip. Documents without markers read naturally: a tag seen once is
// a child, a tag seen again turns the field into an array.
package xmldoc
