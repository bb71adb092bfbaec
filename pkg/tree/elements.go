package tree

// Document structure elements

func Head(args ...any) *Node     { return New("head", args...) }
func Body(args ...any) *Node     { return New("body", args...) }
func Title(args ...any) *Node    { return New("title", args...) }
func Meta(args ...any) *Node     { return New("meta", args...) }
func Link(args ...any) *Node     { return New("link", args...) }
func Base(args ...any) *Node     { return New("base", args...) }
func Script(args ...any) *Node   { return New("script", args...) }
func StyleEl(args ...any) *Node  { return New("style", args...) }
func Noscript(args ...any) *Node { return New("noscript", args...) }

// Content sectioning elements

func Header(args ...any) *Node  { return New("header", args...) }
func Footer(args ...any) *Node  { return New("footer", args...) }
func Main(args ...any) *Node    { return New("main", args...) }
func Nav(args ...any) *Node     { return New("nav", args...) }
func Section(args ...any) *Node { return New("section", args...) }
func Article(args ...any) *Node { return New("article", args...) }
func Aside(args ...any) *Node   { return New("aside", args...) }
func Address(args ...any) *Node { return New("address", args...) }
func H1(args ...any) *Node      { return New("h1", args...) }
func H2(args ...any) *Node      { return New("h2", args...) }
func H3(args ...any) *Node      { return New("h3", args...) }
func H4(args ...any) *Node      { return New("h4", args...) }
func H5(args ...any) *Node      { return New("h5", args...) }
func H6(args ...any) *Node      { return New("h6", args...) }

// Text content elements

func Div(args ...any) *Node        { return New("div", args...) }
func P(args ...any) *Node          { return New("p", args...) }
func Pre(args ...any) *Node        { return New("pre", args...) }
func Blockquote(args ...any) *Node { return New("blockquote", args...) }
func Ul(args ...any) *Node         { return New("ul", args...) }
func Ol(args ...any) *Node         { return New("ol", args...) }
func Li(args ...any) *Node         { return New("li", args...) }
func Dl(args ...any) *Node         { return New("dl", args...) }
func Dt(args ...any) *Node         { return New("dt", args...) }
func Dd(args ...any) *Node         { return New("dd", args...) }
func Figure(args ...any) *Node     { return New("figure", args...) }
func Figcaption(args ...any) *Node { return New("figcaption", args...) }
func Hr(args ...any) *Node         { return New("hr", args...) }

// Inline text elements

func A(args ...any) *Node      { return New("a", args...) }
func Span(args ...any) *Node   { return New("span", args...) }
func Strong(args ...any) *Node { return New("strong", args...) }
func Em(args ...any) *Node     { return New("em", args...) }
func B(args ...any) *Node      { return New("b", args...) }
func I(args ...any) *Node      { return New("i", args...) }
func U(args ...any) *Node      { return New("u", args...) }
func Small(args ...any) *Node  { return New("small", args...) }
func Code(args ...any) *Node   { return New("code", args...) }
func Kbd(args ...any) *Node    { return New("kbd", args...) }
func Mark(args ...any) *Node   { return New("mark", args...) }
func Abbr(args ...any) *Node   { return New("abbr", args...) }
func Time(args ...any) *Node   { return New("time", args...) }
func Sub(args ...any) *Node    { return New("sub", args...) }
func Sup(args ...any) *Node    { return New("sup", args...) }
func Br(args ...any) *Node     { return New("br", args...) }

// Media elements

func Img(args ...any) *Node      { return New("img", args...) }
func Video(args ...any) *Node    { return New("video", args...) }
func Audio(args ...any) *Node    { return New("audio", args...) }
func SourceEl(args ...any) *Node { return New("source", args...) }
func Track(args ...any) *Node    { return New("track", args...) }
func Picture(args ...any) *Node  { return New("picture", args...) }
func IFrame(args ...any) *Node   { return New("iframe", args...) }
func Canvas(args ...any) *Node   { return New("canvas", args...) }

// Table elements

func Table(args ...any) *Node   { return New("table", args...) }
func Caption(args ...any) *Node { return New("caption", args...) }
func THead(args ...any) *Node   { return New("thead", args...) }
func TBody(args ...any) *Node   { return New("tbody", args...) }
func TFoot(args ...any) *Node   { return New("tfoot", args...) }
func Tr(args ...any) *Node      { return New("tr", args...) }
func Th(args ...any) *Node      { return New("th", args...) }
func Td(args ...any) *Node      { return New("td", args...) }

// Form elements

func Form(args ...any) *Node     { return New("form", args...) }
func Label(args ...any) *Node    { return New("label", args...) }
func Input(args ...any) *Node    { return New("input", args...) }
func Button(args ...any) *Node   { return New("button", args...) }
func Select(args ...any) *Node   { return New("select", args...) }
func OptionEl(args ...any) *Node { return New("option", args...) }
func Textarea(args ...any) *Node { return New("textarea", args...) }
func Fieldset(args ...any) *Node { return New("fieldset", args...) }
func Legend(args ...any) *Node   { return New("legend", args...) }

// Interactive elements

func Details(args ...any) *Node { return New("details", args...) }
func Summary(args ...any) *Node { return New("summary", args...) }
func Dialog(args ...any) *Node  { return New("dialog", args...) }
