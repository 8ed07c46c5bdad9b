package rdf

// Namespaces used by the processors.
const (
	RDFNS       = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFSNS      = "http://www.w3.org/2000/01/rdf-schema#"
	OWLNS       = "http://www.w3.org/2002/07/owl#"
	XSDNS       = "http://www.w3.org/2001/XMLSchema#"
	RDFaNS      = "http://www.w3.org/ns/rdfa#"
	XHTMLVocab  = "http://www.w3.org/1999/xhtml/vocab#"
	PowderVocab = "http://www.w3.org/2007/05/powder-s#"

	XHTMLNS = "http://www.w3.org/1999/xhtml"
	XMLNS   = "http://www.w3.org/XML/1998/namespace"
	SVGNS   = "http://www.w3.org/2000/svg"
)

// RDF vocabulary.
const (
	RDFType        = RDFNS + "type"
	RDFFirst       = RDFNS + "first"
	RDFRest        = RDFNS + "rest"
	RDFNil         = RDFNS + "nil"
	RDFXMLLiteral  = RDFNS + "XMLLiteral"
	RDFProperty    = RDFNS + "Property"
	RDFStatement   = RDFNS + "Statement"
	RDFSubject     = RDFNS + "subject"
	RDFPredicate   = RDFNS + "predicate"
	RDFObject      = RDFNS + "object"
	RDFDescription = RDFNS + "Description"
	RDFLi          = RDFNS + "li"
	RDFRoot        = RDFNS + "RDF"
)

// RDFS and OWL terms used for vocabulary expansion.
const (
	RDFSClass             = RDFSNS + "Class"
	RDFSSubClassOf        = RDFSNS + "subClassOf"
	RDFSSubPropertyOf     = RDFSNS + "subPropertyOf"
	OWLEquivalentClass    = OWLNS + "equivalentClass"
	OWLEquivalentProperty = OWLNS + "equivalentProperty"
)

// XSD datatypes.
const (
	XSDString     = XSDNS + "string"
	XSDBoolean    = XSDNS + "boolean"
	XSDInteger    = XSDNS + "integer"
	XSDDouble     = XSDNS + "double"
	XSDDate       = XSDNS + "date"
	XSDTime       = XSDNS + "time"
	XSDDateTime   = XSDNS + "dateTime"
	XSDDuration   = XSDNS + "duration"
	XSDGYear      = XSDNS + "gYear"
	XSDGYearMonth = XSDNS + "gYearMonth"
)

// Processor graph vocabulary.
const (
	RDFaError           = RDFaNS + "Error"
	RDFaWarning         = RDFaNS + "Warning"
	RDFaInfo            = RDFaNS + "Info"
	RDFaUnresolvedCURIE = RDFaNS + "UnresolvedCURIE"
	RDFaUnresolvedTerm  = RDFaNS + "UnresolvedTerm"
	RDFaContext         = RDFaNS + "context"
	RDFaUsesVocabulary  = RDFaNS + "usesVocabulary"
)

// XHVRole is the predicate of @role statements.
const XHVRole = XHTMLVocab + "role"
